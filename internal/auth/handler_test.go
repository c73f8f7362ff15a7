package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var handler *Handler

	ginkgo.BeforeEach(func() {
		clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		issuer, err := NewTokenIssuer("test-secret", "24h")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		issuer.WithClock(func() time.Time { return clock })

		service := NewService(newMockUserRepository(), issuer, newMemoryRefreshStore(), 7*24*time.Hour, nil).
			WithClock(func() time.Time { return clock })
		handler = NewHandler(service)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	ginkgo.It("answers a wrong password with 401 and the generic message", func() {
		rec := login(`{"username":"bob","password":"nope"}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		gomega.Expect(body).To(gomega.HaveKeyWithValue("error", "Invalid username or password"))
	})

	ginkgo.It("uses the same message for an unknown username", func() {
		rec := login(`{"username":"mallory","password":"correct_password"}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"error":"Invalid username or password"`))
	})

	ginkgo.It("returns the session for valid credentials without any password field", func() {
		rec := login(`{"username":"alice","password":"correct_password"}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		gomega.Expect(body["accessToken"]).ToNot(gomega.BeEmpty())
		gomega.Expect(body).To(gomega.HaveKeyWithValue("username", "alice"))
		gomega.Expect(body).To(gomega.HaveKeyWithValue("role", "admin"))
		gomega.Expect(body).ToNot(gomega.HaveKey("password"))
		gomega.Expect(body).ToNot(gomega.HaveKey("passwordHash"))
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("$2a$"))
	})

	ginkgo.It("rejects a body without credentials as a validation error", func() {
		rec := login(`{}`)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})
