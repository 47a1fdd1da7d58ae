package advisor_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vault/internal/advisor/backend"
	advisorhttp "github.com/MrJamesThe3rd/vault/internal/http/advisor"
)

func TestHandler(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		configured bool
		setupMock  func(m *backend.MockModel)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "Chat",
			body:       `{"action":"chat","payload":{"message":"Como economizar?","context":{"balance":"100","income":"0","expense":"0"}}}`,
			configured: true,
			setupMock: func(m *backend.MockModel) {
				m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("Guarde 10% da renda.", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"text":"Guarde 10% da renda."}`,
		},
		{
			name:       "UnknownAction",
			body:       `{"action":"launch_rocket","payload":{}}`,
			configured: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedBody",
			body:       `{"action":`,
			configured: true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NotConfigured",
			body:       `{"action":"chat","payload":{"message":"oi","context":{}}}`,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "ModelFailure",
			body:       `{"action":"chat","payload":{"message":"oi","context":{}}}`,
			configured: true,
			setupMock: func(m *backend.MockModel) {
				m.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", errors.New("rate limited"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			var b *backend.Backend

			if tt.configured {
				model := backend.NewMockModel(ctrl)
				if tt.setupMock != nil {
					tt.setupMock(model)
				}

				b = backend.New(model)
			} else {
				b = backend.New(nil)
			}

			r := chi.NewRouter()
			advisorhttp.NewHandler(b).Routes(r)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
