package persistence_test

import (
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/persistence"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func visitState() domain.State {
	state := domain.NewState("living-room")
	state.CurrentSceneID = "lounge"
	state.History = append(state.History, "lounge")
	state.Visits = 1
	return *state
}

func TestEncryptedCodecRoundtrip(t *testing.T) {
	codec, err := persistence.NewEncryptedCodec(persistence.EncryptionConfig{ActiveKey: generateKey(t)}, nil)
	if err != nil {
		t.Fatalf("NewEncryptedCodec: %v", err)
	}

	state := visitState()

	// 1. Encode
	data, err := codec.Encode(state)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// 2. Verify the stored bytes leak nothing
	if strings.Contains(string(data), "lounge") {
		t.Fatalf("Expected scene ids to be hidden, stored: %s", data)
	}
	if !strings.Contains(string(data), "__encrypted__") {
		t.Fatal("Expected __encrypted__ envelope in stored bytes")
	}

	// 3. Decode restores the state
	loaded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if loaded.CurrentSceneID != "lounge" || loaded.Visits != 1 {
		t.Errorf("Decoded state mismatch: %+v", loaded)
	}
	if len(loaded.History) != 2 || loaded.History[1] != "lounge" {
		t.Errorf("Decoded history mismatch: %v", loaded.History)
	}
}

func TestEncryptedCodecKeyRotation(t *testing.T) {
	oldKey := generateKey(t)
	newKey := generateKey(t)

	codecOld, err := persistence.NewEncryptedCodec(persistence.EncryptionConfig{ActiveKey: oldKey}, nil)
	if err != nil {
		t.Fatalf("NewEncryptedCodec: %v", err)
	}

	// 1. Encode with OLD key
	data, err := codecOld.Encode(visitState())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// 2. Decode with NEW key (Active) + OLD key (Fallback)
	codecNew, err := persistence.NewEncryptedCodec(persistence.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	}, nil)
	if err != nil {
		t.Fatalf("NewEncryptedCodec: %v", err)
	}

	loaded, err := codecNew.Decode(data)
	if err != nil {
		t.Fatalf("Decode with rotated key failed: %v", err)
	}
	if loaded.CurrentSceneID != "lounge" {
		t.Errorf("Decryption with fallback key failed: %+v", loaded)
	}

	// 3. Encode again (now under the NEW key)
	data, err = codecNew.Encode(loaded)
	if err != nil {
		t.Fatalf("Encode with new key failed: %v", err)
	}

	// 4. Verify the OLD key alone can no longer read it
	if _, err := codecOld.Decode(data); err == nil {
		t.Error("Expected failure when decoding new-key encryption with the old key only")
	}
}

func TestEncryptedCodecRejectsPlainState(t *testing.T) {
	codec, err := persistence.NewEncryptedCodec(persistence.EncryptionConfig{ActiveKey: generateKey(t)}, nil)
	if err != nil {
		t.Fatalf("NewEncryptedCodec: %v", err)
	}

	plain, err := persistence.JSON{}.Encode(visitState())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := codec.Decode(plain); err == nil {
		t.Error("Expected plain stored state to be rejected once encryption is configured")
	}
}

func TestEncryptedCodecKeySize(t *testing.T) {
	if _, err := persistence.NewEncryptedCodec(persistence.EncryptionConfig{ActiveKey: []byte("short-key")}, nil); err == nil {
		t.Error("Expected error for invalid active key size")
	}

	_, err := persistence.NewEncryptedCodec(persistence.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short-key")},
	}, nil)
	if err == nil {
		t.Error("Expected error for invalid fallback key size")
	}
}

func TestHistoryCapCodec(t *testing.T) {
	state := *domain.NewState("a")
	state.History = []string{"a", "b", "c", "d", "e", "f"}
	state.CurrentSceneID = "f"
	state.Visits = 5

	codec := persistence.NewHistoryCapCodec(3, nil)
	data, err := codec.Encode(state)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	loaded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got, want := len(loaded.History), 3; got != want {
		t.Fatalf("stored history length = %d, want %d", got, want)
	}
	if loaded.History[0] != "d" || loaded.History[2] != "f" {
		t.Errorf("stored history = %v, want the most recent entries", loaded.History)
	}
	if loaded.Visits != 5 || loaded.CurrentSceneID != "f" {
		t.Errorf("capping must not touch other fields: %+v", loaded)
	}

	// The caller's state keeps its full trail.
	if len(state.History) != 6 {
		t.Errorf("caller history trimmed to %v", state.History)
	}
}

func TestHistoryCapCodecDisabled(t *testing.T) {
	state := visitState()

	codec := persistence.NewHistoryCapCodec(0, nil)
	data, err := codec.Encode(state)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	loaded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(loaded.History) != len(state.History) {
		t.Errorf("limit 0 must keep the trail, got %v", loaded.History)
	}
}

func TestCodecsCompose(t *testing.T) {
	state := *domain.NewState("a")
	state.History = []string{"a", "b", "c", "d"}
	state.CurrentSceneID = "d"
	state.Visits = 3

	codec, err := persistence.NewEncryptedCodec(
		persistence.EncryptionConfig{ActiveKey: generateKey(t)},
		persistence.NewHistoryCapCodec(2, nil),
	)
	if err != nil {
		t.Fatalf("NewEncryptedCodec: %v", err)
	}

	data, err := codec.Encode(state)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	loaded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(loaded.History) != 2 || loaded.History[1] != "d" {
		t.Errorf("composed codec history = %v, want last 2 entries", loaded.History)
	}
}
