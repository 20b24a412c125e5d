package handler_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/rollcall/internal/command"
	"basegraph.app/rollcall/internal/http/handler"
	"basegraph.app/rollcall/internal/queue"
)

const timestamp = "1700000000"

var _ = Describe("InteractionHandler", func() {
	var (
		router   *gin.Engine
		producer *mockProducer
		priv     ed25519.PrivateKey
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		pub, key, err := ed25519.GenerateKey(nil)
		Expect(err).NotTo(HaveOccurred())
		priv = key

		producer = &mockProducer{}
		h := handler.NewInteractionHandler(pub, producer, "X-Trace-Id")
		router = gin.New()
		router.POST("/interactions", h.Handle)
	})

	send := func(payload any, signed bool, headers ...string) *httptest.ResponseRecorder {
		body, err := json.Marshal(payload)
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/interactions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Signature-Timestamp", timestamp)
		if signed {
			sig := ed25519.Sign(priv, append([]byte(timestamp), body...))
			req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
		} else {
			req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(make([]byte, ed25519.SignatureSize)))
		}
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	slash := func(guildID string, data map[string]any) map[string]any {
		return map[string]any{
			"id":             "900000000000000001",
			"application_id": "800000000000000001",
			"type":           int(discordgo.InteractionApplicationCommand),
			"guild_id":       guildID,
			"channel_id":     "200000000000000001",
			"token":          "interaction-token",
			"member":         map[string]any{"user": map[string]any{"id": "300000000000000001"}},
			"data":           data,
		}
	}

	decode := func(w *httptest.ResponseRecorder) discordgo.InteractionResponse {
		var resp discordgo.InteractionResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	It("rejects requests with a bad signature", func() {
		w := send(map[string]any{"type": 1}, false)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(producer.tasks).To(BeEmpty())
	})

	It("answers pings with a pong", func() {
		w := send(map[string]any{"type": 1}, true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"type":1}`))
	})

	It("defers a reaction check and enqueues it for the followup", func() {
		w := send(slash("100000000000000001", map[string]any{
			"id":   "700000000000000001",
			"name": command.SlashReactCheck,
			"type": 1,
			"options": []map[string]any{
				{"name": command.OptionMessage, "type": 3, "value": "https://discord.com/channels/100000000000000001/2/3"},
				{"name": command.OptionRole, "type": 3, "value": "Team Rot"},
			},
		}), true, "X-Trace-Id", "4bf92f3577b34da6a3ce929d0e0e4736")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w).Type).To(Equal(discordgo.InteractionResponseDeferredChannelMessageWithSource))

		Expect(producer.tasks).To(HaveLen(1))
		task := producer.tasks[0]
		Expect(task.TaskType).To(Equal(queue.TaskTypeReactionCheck))
		Expect(task.InvocationID).To(Equal("900000000000000001"))
		Expect(task.GuildID).To(Equal("100000000000000001"))
		Expect(task.ChannelID).To(Equal("200000000000000001"))
		Expect(task.MessageArg).To(Equal("https://discord.com/channels/100000000000000001/2/3"))
		Expect(task.RoleName).To(Equal("Team Rot"))
		Expect(task.RequestedBy).To(Equal("300000000000000001"))
		Expect(task.InteractionAppID).To(Equal("800000000000000001"))
		Expect(task.InteractionToken).To(Equal("interaction-token"))
		Expect(task.TraceID).To(Equal("4bf92f3577b34da6a3ce929d0e0e4736"))
		Expect(task.ViaInteraction()).To(BeTrue())
	})

	It("defers the role overview", func() {
		w := send(slash("100000000000000001", map[string]any{"id": "7", "name": command.SlashRoleOverview, "type": 1}), true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(producer.tasks).To(HaveLen(1))
		Expect(producer.tasks[0].TaskType).To(Equal(queue.TaskTypeRoleOverview))
	})

	It("rejects unknown commands", func() {
		w := send(slash("100000000000000001", map[string]any{"id": "7", "name": "ping", "type": 1}), true)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(producer.tasks).To(BeEmpty())
	})

	It("answers outside a guild with an ephemeral notice", func() {
		w := send(slash("", map[string]any{"id": "7", "name": command.SlashRoleOverview, "type": 1}), true)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp.Type).To(Equal(discordgo.InteractionResponseChannelMessageWithSource))
		Expect(resp.Data.Flags).To(Equal(discordgo.MessageFlagsEphemeral))
		Expect(producer.tasks).To(BeEmpty())
	})

	It("shows the usage when the message option is missing", func() {
		w := send(slash("100000000000000001", map[string]any{"id": "7", "name": command.SlashReactCheck, "type": 1}), true)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w).Data.Content).To(Equal(command.UsageReactCheck))
		Expect(producer.tasks).To(BeEmpty())
	})

	It("tells the user when the task cannot be queued", func() {
		producer.enqueueFn = func(context.Context, queue.Task) error { return errors.New("redis down") }

		w := send(slash("100000000000000001", map[string]any{"id": "7", "name": command.SlashRoleOverview, "type": 1}), true)

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp.Type).To(Equal(discordgo.InteractionResponseChannelMessageWithSource))
		Expect(resp.Data.Flags).To(Equal(discordgo.MessageFlagsEphemeral))
	})
})
