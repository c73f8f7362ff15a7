package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/pos-backoffice/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping and copies", func() {
		wrapped := fmt.Errorf("login: %w", internal.ErrInvalidCredentials.WithCause(errors.New("bcrypt mismatch")))

		Expect(errors.Is(wrapped, internal.ErrInvalidCredentials)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrInvalidToken)).To(BeFalse())

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("never mutates the sentinel", func() {
		_ = internal.ErrDuplicateKey.WithDetails(map[string]string{"field": "name"})
		Expect(internal.ErrDuplicateKey.Details).To(BeNil())
	})

	It("renders field errors into the response body", func() {
		err := internal.NewValidationFieldError("amount", "amount exceeds the refundable balance", internal.ErrCodeInvalidAmount)

		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body.Code).To(Equal(internal.ErrCodeValidationFailed))
		Expect(body.Message).To(Equal("amount exceeds the refundable balance"))
		Expect(err.Error()).To(Equal("amount exceeds the refundable balance"))

		details, ok := body.Details.(internal.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors[0].Field).To(Equal("amount"))
		Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidAmount)))
	})

	It("omits the message when it would repeat the error", func() {
		_, body := internal.NewNotFoundError("order not found", internal.ErrCodeOrderNotFound).ToHTTPResponse()
		Expect(body.Message).To(BeEmpty())
	})

	It("keeps the cause out of the response", func() {
		err := internal.NewInternalError("Internal server error", errors.New("pq: connection reset"))

		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body.Error).To(Equal("Internal server error"))
		Expect(errors.Unwrap(err)).To(MatchError("pq: connection reset"))
	})
})

var _ = Describe("Principal context", func() {
	It("round-trips the caller", func() {
		ctx := internal.ContextWithPrincipal(context.Background(), internal.Principal{UserID: 4, Role: "cashier"})

		p, ok := internal.PrincipalFromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(p.UserID).To(Equal(int64(4)))
	})

	It("reports absence", func() {
		_, ok := internal.PrincipalFromContext(context.Background())
		Expect(ok).To(BeFalse())
	})
})
