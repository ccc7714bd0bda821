package helpers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeyUser   contextKey = "userObject"
)

var validate = validator.New()

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

const orderCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderCode builds a human-readable unique code like
// ORD-20250901-7KQ2XF from the current date plus a random suffix.
func GenerateOrderCode() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderCodeCharset))))
		if err != nil {
			suffix[i] = orderCodeCharset[0]
			continue
		}
		suffix[i] = orderCodeCharset[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), string(suffix))
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

func GetUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(ContextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(ContextKeyUser).(*models.User); ok {
		return user
	}
	return nil
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, user.ID)
	return context.WithValue(ctx, ContextKeyUser, user)
}
