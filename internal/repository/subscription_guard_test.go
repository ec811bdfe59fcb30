package repository

import (
	"errors"
	"piata/internal/apperrors"
	"testing"
)

func TestCheckSubscribeGuard(t *testing.T) {
	tests := []struct {
		name        string
		shopOwnerID int
		planActive  bool
		userID      int
		wantErr     error
	}{
		{"план активен, чужой магазин", 1, true, 2, nil},
		{"план не активен", 1, false, 2, apperrors.ErrInvalidInput},
		{"свой магазин", 1, true, 1, apperrors.ErrSelfAction},
		// Неактивный план проверяется раньше самоподписки
		{"свой магазин и неактивный план", 1, false, 1, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSubscribeGuard(tt.shopOwnerID, tt.planActive, tt.userID)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("неожиданная ошибка: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ошибка %v, ожидали %v", err, tt.wantErr)
			}
		})
	}
}
