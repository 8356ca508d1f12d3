package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Connection defaults, following Redis/Valkey convention.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 6379
)

// CredentialIDPrefix prefixes every saved credential ID.
const CredentialIDPrefix = "cred_"

// Credential is a saved connection profile: everything needed to open and
// prepare a session with one server.
type Credential struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name,omitempty" yaml:"name,omitempty"`
	Host       string    `json:"host" yaml:"host"`
	Port       int       `json:"port" yaml:"port"`
	Username   string    `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string    `json:"-" yaml:"-"`
	DB         int       `json:"db" yaml:"db"`
	ClientName string    `json:"client_name,omitempty" yaml:"client_name,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewCredential returns a credential with a fresh ID and defaults applied.
func NewCredential(host string, port int) (*Credential, error) {
	id, err := NewCredentialID()
	if err != nil {
		return nil, err
	}
	c := &Credential{
		ID:        id,
		Host:      host,
		Port:      port,
		CreatedAt: timeNow().UTC(),
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	return c, nil
}

// NewCredentialID generates a credential ID: cred_ + lowercase ULID.
func NewCredentialID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(timeNow()), entropy)
	if err != nil {
		return "", fmt.Errorf("generate credential id: %w", err)
	}
	return CredentialIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidCredentialID reports whether id has the cred_<ulid> shape.
func IsValidCredentialID(id string) bool {
	if !strings.HasPrefix(id, CredentialIDPrefix) {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(CredentialIDPrefix):]))
	return err == nil
}

// Validate checks the fields a connection needs.
func (c *Credential) Validate() error {
	if c.Host == "" {
		return NewError(KindUsage, "host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return Errorf(KindUsage, "port %d out of range", c.Port)
	}
	if c.DB < 0 {
		return Errorf(KindUsage, "db %d must not be negative", c.DB)
	}
	if c.Username != "" && c.Password == "" {
		return NewError(KindUsage, "username requires a password")
	}
	return nil
}

// Address returns host:port.
func (c *Credential) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String renders the credential as a redis:// URL with the password masked.
func (c *Credential) String() string {
	var b strings.Builder
	b.WriteString("redis://")
	if c.Username != "" {
		b.WriteString(c.Username)
		if c.Password != "" {
			b.WriteString(":<password>")
		}
		b.WriteByte('@')
	} else if c.Password != "" {
		b.WriteString(":<password>@")
	}
	b.WriteString(c.Address())
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(c.DB))
	return b.String()
}

// Specificity measures how far a credential departs from the defaults, as
// the fraction of its connection fields that were set explicitly. Higher
// is more specific.
func (c *Credential) Specificity() float64 {
	fields := []bool{
		c.Host != DefaultHost,
		c.Port != DefaultPort,
		c.Username != "",
		c.Password != "",
		c.DB != 0,
		c.ClientName != "",
	}
	changed := 0
	for _, f := range fields {
		if f {
			changed++
		}
	}
	return float64(changed) / float64(len(fields))
}

// CredentialFilter selects saved credentials. Zero-valued fields (nil for
// pointers) do not constrain the match.
type CredentialFilter struct {
	Name     string
	Host     string
	Port     *int
	Username string
	DB       *int
}

// IsEmpty reports whether the filter constrains nothing.
func (f CredentialFilter) IsEmpty() bool {
	return f.Name == "" && f.Host == "" && f.Port == nil && f.Username == "" && f.DB == nil
}

// Matches reports whether c satisfies every constraint in f.
func (c *Credential) Matches(f CredentialFilter) bool {
	if f.Name != "" && f.Name != c.Name && f.Name != c.ID {
		return false
	}
	if f.Host != "" && !strings.EqualFold(f.Host, c.Host) {
		return false
	}
	if f.Port != nil && *f.Port != c.Port {
		return false
	}
	if f.Username != "" && f.Username != c.Username {
		return false
	}
	if f.DB != nil && *f.DB != c.DB {
		return false
	}
	return true
}

// timeNow is a hook for testing.
var timeNow = time.Now

// ErrCredentialNotFound is returned by credential stores for an unknown
// name or ID.
var ErrCredentialNotFound = errors.New("saved connection not found")
