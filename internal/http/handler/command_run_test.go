package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/rollcall/internal/http/dto"
	"basegraph.app/rollcall/internal/http/handler"
	"basegraph.app/rollcall/internal/model"
	"basegraph.app/rollcall/internal/store"
)

var _ = Describe("CommandRunHandler", func() {
	var (
		router *gin.Engine
		runs   *mockRunStore
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		runs = &mockRunStore{}
		h := handler.NewCommandRunHandler(runs)
		router = gin.New()
		router.GET("/runs/:id", h.Get)
		router.GET("/guilds/:guild_id/runs", h.ListByGuild)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	Describe("Get", func() {
		It("returns the run", func() {
			msg := "send failed"
			runs.getByIDFn = func(_ context.Context, id int64) (*model.CommandRun, error) {
				return &model.CommandRun{
					ID:           id,
					InvocationID: "900",
					GuildID:      "100",
					Command:      "reaction_check",
					Attempt:      2,
					Status:       model.CommandRunStatusFailed,
					Error:        &msg,
					StartedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				}, nil
			}

			w := get("/runs/42")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("42"))
			Expect(resp["status"]).To(Equal("failed"))
			Expect(resp["error"]).To(Equal("send failed"))
			Expect(resp).NotTo(HaveKey("finished_at"))
		})

		It("returns 404 for unknown runs", func() {
			Expect(get("/runs/42").Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for malformed ids", func() {
			Expect(get("/runs/abc").Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the store fails", func() {
			runs.getByIDFn = func(context.Context, int64) (*model.CommandRun, error) {
				return nil, errors.New("boom")
			}
			Expect(get("/runs/42").Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("ListByGuild", func() {
		var gotLimit int32

		BeforeEach(func() {
			gotLimit = 0
			runs.listByGuildFn = func(_ context.Context, guildID string, limit int32) ([]model.CommandRun, error) {
				Expect(guildID).To(Equal("100"))
				gotLimit = limit
				return []model.CommandRun{
					{ID: 2, GuildID: "100", Status: model.CommandRunStatusSucceeded},
					{ID: 1, GuildID: "100", Status: model.CommandRunStatusRejected},
				}, nil
			}
		})

		It("lists the runs with the default limit", func() {
			w := get("/guilds/100/runs")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(50)))
			var resp dto.ListCommandRunsResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Runs).To(HaveLen(2))
			Expect(resp.Runs[1].Status).To(Equal("rejected"))
		})

		It("caps the limit", func() {
			Expect(get("/guilds/100/runs?limit=1000").Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(200)))
		})

		It("rejects a bad limit", func() {
			Expect(get("/guilds/100/runs?limit=-1").Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the store fails", func() {
			runs.listByGuildFn = func(context.Context, string, int32) ([]model.CommandRun, error) {
				return nil, store.ErrNotFound
			}
			Expect(get("/guilds/100/runs").Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
