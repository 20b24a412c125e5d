package schedule_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/rollcall/internal/queue"
	"basegraph.app/rollcall/internal/schedule"
)

type mockProducer struct {
	err   error
	tasks []queue.Task
}

func (m *mockProducer) Enqueue(_ context.Context, task queue.Task) error {
	if m.err != nil {
		return m.err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockProducer) Close() error { return nil }

var _ = Describe("Scheduler", func() {
	var (
		producer *mockProducer
		cfg      schedule.Config
	)

	BeforeEach(func() {
		producer = &mockProducer{}
		cfg = schedule.Config{
			RoleReportCron: "0 9 * * 1",
			GuildID:        "100000000000000001",
			ChannelID:      "200000000000000001",
		}
	})

	It("rejects an invalid cron expression", func() {
		cfg.RoleReportCron = "every monday"
		_, err := schedule.New(producer, cfg)
		Expect(err).To(MatchError(ContainSubstring("ROLE_REPORT_CRON")))
	})

	It("enqueues a valid role overview for the configured channel", func() {
		s, err := schedule.New(producer, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.EnqueueRoleReport(context.Background())).To(Succeed())
		Expect(s.EnqueueRoleReport(context.Background())).To(Succeed())

		Expect(producer.tasks).To(HaveLen(2))
		task := producer.tasks[0]
		Expect(task.TaskType).To(Equal(queue.TaskTypeRoleOverview))
		Expect(task.GuildID).To(Equal(cfg.GuildID))
		Expect(task.ChannelID).To(Equal(cfg.ChannelID))
		Expect(task.ReplyTo).To(BeEmpty())
		Expect(task.ViaInteraction()).To(BeFalse())
		Expect(producer.tasks[1].InvocationID).NotTo(Equal(task.InvocationID))
	})

	It("reports enqueue failures", func() {
		producer.err = errors.New("redis down")
		s, err := schedule.New(producer, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.EnqueueRoleReport(context.Background())).To(MatchError(ContainSubstring("redis down")))
	})

	It("starts and stops cleanly", func() {
		s, err := schedule.New(producer, cfg)
		Expect(err).NotTo(HaveOccurred())

		s.Start()
		s.Stop(context.Background())
		Expect(producer.tasks).To(BeEmpty())
	})
})
