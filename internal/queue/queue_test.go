package queue

import (
	"encoding/json"
	"testing"
)

func TestMessageWireFormat(t *testing.T) {
	msg := Message{
		JobID:     "f0a1b2c3-d4e5-4f60-8172-93a4b5c6d7e8",
		PackageID: "a0b1c2d3-e4f5-4a60-b172-83c4d5e6f7a8",
	}

	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Workers depend on these exact key names
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if raw["job_id"] != msg.JobID {
		t.Errorf("job_id = %q, expected %q", raw["job_id"], msg.JobID)
	}
	if raw["package_id"] != msg.PackageID {
		t.Errorf("package_id = %q, expected %q", raw["package_id"], msg.PackageID)
	}
	if len(raw) != 2 {
		t.Errorf("message has %d fields, expected 2", len(raw))
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New("not-a-url", ""); err == nil {
		t.Error("expected error for malformed redis url")
	}
}

func TestNewDefaultsQueueName(t *testing.T) {
	q, err := New("redis://localhost:6379/0", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer q.Close()
	if q.name != DefaultName {
		t.Errorf("queue name = %q, expected %q", q.name, DefaultName)
	}
}
