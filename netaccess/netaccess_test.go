package netaccess

import (
	"context"
	"strings"
	"testing"
)

func TestConnectCatalogMetadata(t *testing.T) {
	cat := NewConnectCatalog()
	if cat.Name() != "net.connect" {
		t.Errorf("Name() = %q", cat.Name())
	}
	if cat.MethodCount() != 6 {
		t.Errorf("MethodCount() = %d, want 6", cat.MethodCount())
	}
	res := cat.Resources()
	if len(res) != 2 || res[0] != "127.0.0.1" {
		t.Errorf("Resources() = %v", res)
	}
}

func TestConnectCatalogAllVariants(t *testing.T) {
	cat := NewConnectCatalog()
	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully connected to 127.0.0.1@") {
			t.Errorf("id %d: message %q", id, msg)
		}
	}
}

func TestConnectCatalogUnsupportedID(t *testing.T) {
	cat := NewConnectCatalog()
	for _, id := range []int{0, 7, -1} {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
		}
		if !strings.HasPrefix(msg, "Failed to connect to ") {
			t.Errorf("id %d: message %q", id, msg)
		}
	}
}

func TestSendCatalogAllVariants(t *testing.T) {
	cat := NewSendCatalog()
	if cat.MethodCount() != 6 {
		t.Fatalf("MethodCount() = %d, want 6", cat.MethodCount())
	}
	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully sent data via 127.0.0.1@") {
			t.Errorf("id %d: message %q", id, msg)
		}
		if !strings.Contains(msg, "network-payload") {
			t.Errorf("id %d: message %q missing payload", id, msg)
		}
	}
}

func TestSendCatalogUnsupportedID(t *testing.T) {
	cat := NewSendCatalog()
	msg, err := cat.AccessByID(context.Background(), 99)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to send data via ") {
		t.Errorf("message %q", msg)
	}
}

func TestReceiveCatalogAllVariants(t *testing.T) {
	cat := NewReceiveCatalog()
	if cat.MethodCount() != 6 {
		t.Fatalf("MethodCount() = %d, want 6", cat.MethodCount())
	}
	for id := 1; id <= cat.MethodCount(); id++ {
		msg, err := cat.AccessByID(context.Background(), id)
		if err != nil {
			t.Errorf("id %d: unexpected error: %v", id, err)
			continue
		}
		if !strings.HasPrefix(msg, "Successfully received data via 127.0.0.1@") {
			t.Errorf("id %d: message %q", id, msg)
		}
		if !strings.Contains(msg, "network-payload") {
			t.Errorf("id %d: message %q missing payload", id, msg)
		}
	}
}

func TestReceiveCatalogUnsupportedID(t *testing.T) {
	cat := NewReceiveCatalog()
	msg, err := cat.AccessByID(context.Background(), 0)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg, "Failed to receive data via ") {
		t.Errorf("message %q", msg)
	}
}
