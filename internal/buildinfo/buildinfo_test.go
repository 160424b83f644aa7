package buildinfo

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/raitses/stamp/internal/provenance"
)

func sample(t *testing.T) *Info {
	t.Helper()
	info := New("5.0.0-beta.12", "cafebabe")
	require.NoError(t, info.Set("DEBUG", "false"))
	require.NoError(t, info.Set("SERVICE_WORKER_DISABLED", "false"))
	return info
}

func TestConstantsOrder(t *testing.T) {
	got := sample(t).Constants()

	assert.Equal(t, []Constant{
		{Key: KeyVersion, Value: "5.0.0-beta.12"},
		{Key: KeyCommit, Value: "cafebabe"},
		{Key: "DEBUG", Value: "false"},
		{Key: "SERVICE_WORKER_DISABLED", Value: "false"},
	}, got)
}

func TestSetRejectsDerivedKeys(t *testing.T) {
	info := New("", provenance.Unknown)
	assert.Error(t, info.Set(KeyCommit, "abcdef1"))
	assert.Error(t, info.Set(KeyVersion, "1.0.0"))
	assert.Error(t, info.Set(" ", "x"))
}

func TestEncodeEnv(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample(t).Encode(&buf, FormatEnv))

	assert.Equal(t, "VERSION=5.0.0-beta.12\nCOMMIT_HASH=cafebabe\nDEBUG=false\nSERVICE_WORKER_DISABLED=false\n", buf.String())
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample(t).Encode(&buf, FormatJSON))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "cafebabe", got[KeyCommit])
	assert.Equal(t, "false", got["DEBUG"])
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample(t).Encode(&buf, FormatYAML))

	assert.Contains(t, buf.String(), `VERSION: "5.0.0-beta.12"`)

	var got map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "cafebabe", got[KeyCommit])
	assert.Equal(t, "false", got["SERVICE_WORKER_DISABLED"])
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, sample(t).Encode(&buf, "toml"))
}

func TestLDFlags(t *testing.T) {
	info := New("1.2.3", "0123456789abcdef")
	assert.Equal(t,
		"-X github.com/raitses/stamp/pkg/version.Version=1.2.3 -X github.com/raitses/stamp/pkg/version.Commit=0123456789abcdef",
		info.LDFlags(""))

	info = New("", provenance.Unknown)
	assert.Equal(t, "-X main.Commit=unknown", info.LDFlags("main"))
}
