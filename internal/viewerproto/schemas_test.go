package viewerproto_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"dustrunner/internal/sim/tuning"
	"dustrunner/internal/sim/world"
	"dustrunner/internal/viewerproto"
)

func compile(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	p := filepath.Join("..", "..", "schemas", name)
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestSchemas_ValidateSamples(t *testing.T) {
	bootstrapSchema := compile(t, "bootstrap.schema.json")
	subscribeSchema := compile(t, "subscribe.schema.json")
	frameSchema := compile(t, "frame.schema.json")

	opts := tuning.Defaults()

	bootstrap := viewerproto.BootstrapResponse{
		ProtocolVersion: viewerproto.Version,
		Tick:            12,
		ReferenceX:      3400,
		WorldParams:     viewerproto.ParamsFromOptions(opts),
	}
	if err := bootstrapSchema.Validate(roundTrip(t, bootstrap)); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	var sub any
	_ = json.Unmarshal([]byte(`{
	  "type":"SUBSCRIBE",
	  "protocol_version":"1.0",
	  "span_x":2500
	}`), &sub)
	if err := subscribeSchema.Validate(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// A frame built from real generated chunks must match its schema.
	w, err := world.New(opts, world.Deps{})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	w.Update(1500, 0)
	frame := viewerproto.FrameFromChunks(w.Stats().Tick, 1500, w.Stats().Resident, w.ChunksOverlapping(0, 4000))
	if len(frame.Chunks) == 0 {
		t.Fatal("expected resident chunks in frame")
	}
	if err := frameSchema.Validate(roundTrip(t, frame)); err != nil {
		t.Fatalf("frame: %v", err)
	}
}

func TestSchemas_RejectMalformed(t *testing.T) {
	subscribeSchema := compile(t, "subscribe.schema.json")
	var bad any
	_ = json.Unmarshal([]byte(`{"type":"FRAME","protocol_version":"1.0"}`), &bad)
	if err := subscribeSchema.Validate(bad); err == nil {
		t.Fatal("wrong type tag must fail validation")
	}
}
