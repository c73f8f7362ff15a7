package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("TokenIssuer", func() {
	var (
		issuer *TokenIssuer
		clock  time.Time
		alice  = internal.Principal{UserID: 42, Username: "alice", Role: "manager"}
	)

	ginkgo.BeforeEach(func() {
		clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		var err error
		issuer, err = NewTokenIssuer("round-trip-secret", "")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		issuer.WithClock(func() time.Time { return clock })
	})

	ginkgo.It("defaults to a 24 hour lifetime", func() {
		gomega.Expect(issuer.TTL()).To(gomega.Equal(24 * time.Hour))
	})

	ginkgo.It("accepts day and minute literals", func() {
		week, err := NewTokenIssuer("s", "7d")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(week.TTL()).To(gomega.Equal(7 * 24 * time.Hour))

		short, err := NewTokenIssuer("s", "90m")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(short.TTL()).To(gomega.Equal(90 * time.Minute))
	})

	ginkgo.It("rejects malformed lifetime literals and empty secrets", func() {
		_, err := NewTokenIssuer("s", "soon")
		gomega.Expect(err).To(gomega.HaveOccurred())

		_, err = NewTokenIssuer("s", "-1h")
		gomega.Expect(err).To(gomega.HaveOccurred())

		_, err = NewTokenIssuer("", "24h")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("round-trips subject, username and role", func() {
		token, expiresAt, err := issuer.Issue(alice)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(expiresAt).To(gomega.Equal(clock.Add(24 * time.Hour)))

		principal, err := issuer.Authenticate(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(principal).To(gomega.Equal(alice))
	})

	ginkgo.It("fails when any character of the signature changes", func() {
		token, _, err := issuer.Issue(alice)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		dot := strings.LastIndex(token, ".")
		sig := []byte(token[dot+1:])
		for i := range sig {
			tampered := make([]byte, len(sig))
			copy(tampered, sig)
			if tampered[i] == 'A' {
				tampered[i] = 'B'
			} else {
				tampered[i] = 'A'
			}
			_, err := issuer.Verify(token[:dot+1] + string(tampered))
			gomega.Expect(err).To(gomega.HaveOccurred(), "position %d", i)
		}
	})

	ginkgo.It("fails after expiry even though the signature is valid", func() {
		token, _, err := issuer.Issue(alice)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		clock = clock.Add(24*time.Hour + time.Second)
		_, err = issuer.Verify(token)
		gomega.Expect(errors.Is(err, internal.ErrTokenExpired)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects tokens signed with another secret", func() {
		other, err := NewTokenIssuer("another-secret", "24h")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		token, _, err := other.Issue(alice)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = issuer.Verify(token)
		gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects the none algorithm", func() {
		claims := &Claims{
			Username: "alice",
			Role:     "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = issuer.Verify(token)
		gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
	})

	ginkgo.It("reports a missing token distinctly", func() {
		_, err := issuer.Verify("")
		gomega.Expect(errors.Is(err, internal.ErrMissingToken)).To(gomega.BeTrue())
	})
})
