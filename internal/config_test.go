package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", "DEBUG")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	req.NoError(err)

	req.Equal("localhost:1337", config.Address())
	req.Equal(2*time.Second, config.SendTimeout)
	req.Equal(64, config.OutboxSize)
	req.Equal(32, config.MaxUsernameLength)
	req.True(config.EchoToSender)
	req.Empty(config.JournalFilepath)
	req.Nil(config.LimitJournal)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", "INFO")
	t.Setenv("PORT", "4000")

	file := filepath.Join(t.TempDir(), ".env")
	req.NoError(os.WriteFile(file, []byte("PORT=5000\nECHO_TO_SENDER=false\nSEND_TIMEOUT=150ms\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("ECHO_TO_SENDER")
		_ = os.Unsetenv("SEND_TIMEOUT")
	})

	config, err := LoadConfig(file)
	req.NoError(err)

	// The environment wins over the file
	req.Equal(4000, config.Port)
	req.False(config.EchoToSender)
	req.Equal(150*time.Millisecond, config.SendTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	req := require.New(t)
	t.Setenv("LOG_LEVEL", "INFO")
	t.Setenv("OUTBOX_SIZE", "0")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	req.Error(err)
}
