package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/skilloop/skilloop-api/internal/httperr"
)

const (
	codeTTL    = 5 * time.Minute
	codeDigits = 6
)

// Service issues and verifies SMS one-time codes. Codes live in redis
// under otp:<phone> with a TTL; re-requesting overwrites the old code.
type Service struct {
	rdb        *redis.Client
	gatewayURL string
	gatewayKey string
	http       *http.Client
}

func NewService(rdb *redis.Client, gatewayURL, gatewayKey string) *Service {
	return &Service{
		rdb:        rdb,
		gatewayURL: gatewayURL,
		gatewayKey: gatewayKey,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func key(phone string) string {
	return "otp:" + strings.TrimSpace(phone)
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

func (s *Service) Send(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return httperr.ErrBusiness("missing_phone")
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, key(phone), code, codeTTL).Err(); err != nil {
		return err
	}

	return s.dispatch(ctx, phone, code)
}

func (s *Service) dispatch(ctx context.Context, phone, code string) error {
	// No gateway configured: log instead of failing, so local setups can
	// complete the flow from the server log.
	if s.gatewayURL == "" {
		log.Printf("sms gateway not configured, otp for %s: %s", phone, code)
		return nil
	}

	form := url.Values{
		"to":      {phone},
		"message": {fmt.Sprintf("Your Skilloop verification code is %s", code)},
		"api_key": {s.gatewayKey},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.gatewayURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httperr.ErrBusiness("sms_send_failed")
	}
	return nil
}

// Verify checks the code and burns it on success.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)

	stored, err := s.rdb.Get(ctx, key(phone)).Result()
	if err == redis.Nil {
		return httperr.ErrBusiness("code_expired")
	}
	if err != nil {
		return err
	}

	if stored != strings.TrimSpace(code) {
		return httperr.ErrBusiness("invalid_code")
	}

	return s.rdb.Del(ctx, key(phone)).Err()
}
