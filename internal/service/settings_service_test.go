package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/models"
	repomocks "github.com/gestorvip/fila/internal/repository/mocks"
	"github.com/gestorvip/fila/internal/service"
)

func TestSettingsService_Get(t *testing.T) {
	tests := []struct {
		name      string
		stored    models.Settings
		found     bool
		loadErr   error
		expected  models.Settings
		expectErr bool
	}{
		{
			name:     "stored settings returned",
			stored:   models.Settings{WhatsappMessage: "Oi {nome}!"},
			found:    true,
			expected: models.Settings{WhatsappMessage: "Oi {nome}!"},
		},
		{
			name:     "first run falls back to defaults",
			found:    false,
			expected: models.DefaultSettings(),
		},
		{
			name:      "load failure propagates",
			loadErr:   errors.New("redis down"),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockSettingsRepository(ctrl)
			repo.EXPECT().Load(gomock.Any()).Return(tt.stored, tt.found, tt.loadErr)

			svc := service.NewSettingsService(repo, zap.NewNop())

			got, err := svc.Get(context.Background())
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSettingsService_Update(t *testing.T) {
	tests := []struct {
		name     string
		input    models.Settings
		expected models.Settings
	}{
		{
			name:     "custom template saved",
			input:    models.Settings{WhatsappMessage: "Oi {nome}!"},
			expected: models.Settings{WhatsappMessage: "Oi {nome}!"},
		},
		{
			name:     "blank template resets to default",
			input:    models.Settings{WhatsappMessage: "   "},
			expected: models.Settings{WhatsappMessage: models.DefaultWhatsappMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockSettingsRepository(ctrl)
			repo.EXPECT().Save(gomock.Any(), tt.expected).Return(nil)

			svc := service.NewSettingsService(repo, zap.NewNop())
			assert.NoError(t, svc.Update(context.Background(), tt.input))
		})
	}
}

func TestSettingsService_Update_SaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockSettingsRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))

	svc := service.NewSettingsService(repo, zap.NewNop())
	err := svc.Update(context.Background(), models.Settings{WhatsappMessage: "Oi"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save settings")
}
