package connection

import (
	"context"
	"errors"
	"testing"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/resp"
	"github.com/yndnr/redline/internal/testutil/redistest"
)

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultOptions())
	if m.Current() != nil {
		t.Error("new manager should have no current target")
	}
	if m.IsConnected() {
		t.Error("IsConnected() should be false")
	}
}

func TestManager_Connect(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr bool
	}{
		{"defaults", Target{Host: "127.0.0.1", Port: 6379}, false},
		{"missing host", Target{Port: 6379}, true},
		{"bad port", Target{Host: "h", Port: 0}, true},
		{"negative db", Target{Host: "h", Port: 6379, DB: -1}, true},
		{"user without password", Target{Host: "h", Port: 6379, Username: "alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(DefaultOptions())
			err := m.Connect(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Connect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, domain.ErrUsage) {
				t.Errorf("error = %v, want usage error", err)
			}
			if m.IsConnected() == tt.wantErr {
				t.Errorf("IsConnected() = %v", m.IsConnected())
			}
		})
	}
}

func TestManager_Disconnect(t *testing.T) {
	m := NewManager(DefaultOptions())
	_ = m.Connect(Target{Host: "127.0.0.1", Port: 6379})
	m.Disconnect()

	if m.Current() != nil {
		t.Error("Current() should return nil after Disconnect")
	}
}

func TestManager_Exchange(t *testing.T) {
	srv := redistest.NewServer(t, redistest.NewMemory().Handler())
	m := NewManager(fastOptions())

	if _, err := m.Exchange(context.Background(), mustCommand(t, "PING")); !errors.Is(err, domain.ErrUsage) {
		t.Errorf("Exchange without target err = %v, want usage error", err)
	}

	if err := m.Connect(targetFor(srv)); err != nil {
		t.Fatal(err)
	}
	got, err := m.Exchange(context.Background(), mustCommand(t, "PING"))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(resp.SimpleString("PONG")) {
		t.Errorf("reply = %v, want PONG", got)
	}
}

func TestTarget_Credential(t *testing.T) {
	target := Target{Host: "db1", Port: 6380, Username: "alice", Password: "pw", DB: 2}

	c, err := target.Credential("prod")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "prod" || c.Host != "db1" || c.Port != 6380 || c.DB != 2 || c.Password != "pw" {
		t.Errorf("Credential() = %+v", c)
	}
	if !domain.IsValidCredentialID(c.ID) {
		t.Errorf("ID = %q is not a credential ID", c.ID)
	}

	back := TargetFromCredential(c)
	if back.Name != "prod" || back.Address() != "db1:6380" || back.Password != "pw" {
		t.Errorf("TargetFromCredential() = %+v", back)
	}
}
