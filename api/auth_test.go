package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gorilla/mux"

	"alumni/api"
	"alumni/models"
	"alumni/session"
)

func TestLoginPersistsToken(t *testing.T) {
	var gotCreds models.Credentials
	var profileAuth string
	client, storage := newTestClient(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&gotCreds); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			writeJSON(w, http.StatusOK, map[string]string{"token": "abc"})
		}).Methods(http.MethodPost)
		r.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
			profileAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, map[string]any{"firstName": "Ada", "graduationYear": 2015})
		}).Methods(http.MethodGet)
	})
	ctx := context.Background()

	resp, err := client.Auth.Login(ctx, models.Credentials{Email: "a@b.com", Password: "x"})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if resp.Token != "abc" {
		t.Errorf("Login() token = %q, want abc", resp.Token)
	}
	if gotCreds.Email != "a@b.com" || gotCreds.Password != "x" {
		t.Errorf("backend received %+v", gotCreds)
	}
	if token, _, _ := storage.GetItem(ctx, session.TokenKey); token != "abc" {
		t.Errorf("stored token = %q, want abc", token)
	}
	if username, _, _ := storage.GetItem(ctx, session.UsernameKey); username != "a@b.com" {
		t.Errorf("stored username = %q, want a@b.com", username)
	}

	profile, err := client.User.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile() unexpected error: %v", err)
	}
	if profileAuth != "Bearer abc" {
		t.Errorf("profile Authorization = %q, want Bearer abc", profileAuth)
	}
	if profile.GraduationYear != "2015" {
		t.Errorf("GraduationYear = %q, want 2015", profile.GraduationYear)
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload any
		wantErr error
		wantMsg string
	}{
		{
			name:    "Rejected credentials surface the server message",
			status:  http.StatusBadRequest,
			payload: map[string]any{"success": false, "message": "Login failed"},
			wantMsg: "Login failed",
		},
		{
			name:    "Success without token is an error",
			status:  http.StatusOK,
			payload: map[string]any{"success": true},
			wantErr: api.ErrMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, storage := newTestClient(t, func(r *mux.Router) {
				r.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, tt.status, tt.payload)
				})
			})

			_, err := client.Auth.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "x"})
			if err == nil {
				t.Fatalf("Login() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Login() error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if storage.Len() != 0 {
				t.Errorf("failed login stored %d items", storage.Len())
			}
		})
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		payload    map[string]any
		wantAuthed bool
		wantUser   string
	}{
		{
			name:       "Token in response starts the session",
			payload:    map[string]any{"token": "new", "username": "ada"},
			wantAuthed: true,
			wantUser:   "ada",
		},
		{
			name:       "No token leaves the session anonymous",
			payload:    map[string]any{"message": "check your inbox"},
			wantAuthed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.Registration
			client, _ := newTestClient(t, func(r *mux.Router) {
				r.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
					json.NewDecoder(r.Body).Decode(&got)
					writeJSON(w, http.StatusCreated, tt.payload)
				}).Methods(http.MethodPost)
			})
			ctx := context.Background()

			reg := models.Registration{Email: "ada@example.com", Password: "Secret#123", FirstName: "Ada", LastName: "L", GraduationYear: "2015", Major: "Math"}
			if _, err := client.Auth.Register(ctx, reg); err != nil {
				t.Fatalf("Register() unexpected error: %v", err)
			}
			if got != reg {
				t.Errorf("backend received %+v, want %+v", got, reg)
			}
			if authed := client.Session().Authenticated(ctx); authed != tt.wantAuthed {
				t.Errorf("Authenticated() = %v, want %v", authed, tt.wantAuthed)
			}
			if username, _ := client.Session().Username(ctx); username != tt.wantUser {
				t.Errorf("Username() = %q, want %q", username, tt.wantUser)
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	tests := []struct {
		name         string
		logoutStatus int
		wantErr      bool
	}{
		{name: "Successful logout", logoutStatus: http.StatusOK},
		{name: "Backend failure still clears locally", logoutStatus: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logoutAuth, profileAuth string
			client, storage := newTestClient(t, func(r *mux.Router) {
				r.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
					logoutAuth = r.Header.Get("Authorization")
					writeJSON(w, tt.logoutStatus, map[string]string{"message": "bye"})
				}).Methods(http.MethodPost)
				r.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
					profileAuth = r.Header.Get("Authorization")
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no token"})
				})
			})
			ctx := context.Background()
			_ = client.Session().Begin(ctx, "abc", "jane")

			err := client.Auth.Logout(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Logout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if logoutAuth != "Bearer abc" {
				t.Errorf("logout Authorization = %q, want Bearer abc", logoutAuth)
			}
			for _, key := range []string{session.TokenKey, session.UsernameKey} {
				if _, ok, _ := storage.GetItem(ctx, key); ok {
					t.Errorf("%s still stored after logout", key)
				}
			}

			_, err = client.User.GetProfile(ctx)
			if !api.IsUnauthorized(err) {
				t.Errorf("GetProfile() error = %v, want unauthorized", err)
			}
			if profileAuth != "" {
				t.Errorf("profile request carried %q after logout", profileAuth)
			}
		})
	}
}

func TestPasswordRecovery(t *testing.T) {
	var forgotEmail string
	var resetToken string
	var reset models.PasswordReset
	client, _ := newTestClient(t, func(r *mux.Router) {
		r.HandleFunc("/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			forgotEmail = body["email"]
			writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
		}).Methods(http.MethodPost)
		r.HandleFunc("/auth/reset-password/{token}", func(w http.ResponseWriter, r *http.Request) {
			resetToken = mux.Vars(r)["token"]
			json.NewDecoder(r.Body).Decode(&reset)
			writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
		}).Methods(http.MethodPost)
	})
	ctx := context.Background()

	msg, err := client.Auth.ForgotPassword(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword() unexpected error: %v", err)
	}
	if msg.Message != "sent" || forgotEmail != "ada@example.com" {
		t.Errorf("ForgotPassword() message=%q email=%q", msg.Message, forgotEmail)
	}

	if _, err := client.Auth.ResetPassword(ctx, "r3set", models.PasswordReset{Password: "N3w#Password"}); err != nil {
		t.Fatalf("ResetPassword() unexpected error: %v", err)
	}
	if resetToken != "r3set" || reset.Password != "N3w#Password" {
		t.Errorf("reset received token=%q body=%+v", resetToken, reset)
	}

	if _, err := client.Auth.ResetPassword(ctx, "", models.PasswordReset{}); !errors.Is(err, api.ErrMissingID) {
		t.Errorf("ResetPassword(\"\") error = %v, want ErrMissingID", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	var got models.Profile
	var method string
	client, _ := newTestClient(t, func(r *mux.Router) {
		r.HandleFunc("/user/profile", func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			json.NewDecoder(r.Body).Decode(&got)
			writeJSON(w, http.StatusOK, got)
		})
	})

	in := models.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", GraduationYear: "2015", Major: "Math", Location: "London"}
	out, err := client.User.UpdateProfile(context.Background(), in)
	if err != nil {
		t.Fatalf("UpdateProfile() unexpected error: %v", err)
	}
	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if *out != in {
		t.Errorf("UpdateProfile() = %+v, want %+v", *out, in)
	}
}
