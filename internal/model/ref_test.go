package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsToken(t *testing.T) {
	tests := map[string]bool{
		"%pageName%":   true,
		"%a b%":        true,
		"%%":           false,
		"%a%b%":        false,
		"pageName":     false,
		"%pageName":    false,
		" %pageName% ": false,
		"":             false,
	}
	for in, want := range tests {
		if got := IsToken(in); got != want {
			t.Errorf("IsToken(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTokenName(t *testing.T) {
	name, ok := TokenName("%pageName%")
	if !ok || name != "pageName" {
		t.Errorf("TokenName = %q, %v; want %q, true", name, ok, "pageName")
	}
	if _, ok := TokenName("plain"); ok {
		t.Error("TokenName accepted a non-token")
	}
}

func TestTokenRef_RejectsLiteral(t *testing.T) {
	if _, err := TokenRef[string]("all"); err == nil {
		t.Error("expected error for non-token")
	}
}

func TestRef_UnmarshalToken(t *testing.T) {
	var r Ref[map[string]any]
	if err := json.Unmarshal([]byte(`"%xdmObject%"`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.IsToken() || r.Token() != "%xdmObject%" {
		t.Errorf("got token=%v %q", r.IsToken(), r.Token())
	}
	if _, ok := r.Value(); ok {
		t.Error("Value() should report ok=false for a token")
	}
}

func TestRef_UnmarshalLiteral(t *testing.T) {
	var r Ref[map[string]any]
	if err := json.Unmarshal([]byte(`{"eventType":"page-view"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, ok := r.Value()
	if !ok {
		t.Fatal("expected literal")
	}
	if diff := cmp.Diff(map[string]any{"eventType": "page-view"}, v); diff != "" {
		t.Errorf("literal mismatch (-want +got):\n%s", diff)
	}
}

func TestRef_UnmarshalWrongType(t *testing.T) {
	var r Ref[map[string]any]
	if err := json.Unmarshal([]byte(`"not a token"`), &r); err == nil {
		t.Error("expected error decoding a plain string into an object ref")
	}
}

func TestRef_MarshalRoundTrip(t *testing.T) {
	tok, _ := TokenRef[string]("%purposes%")
	for _, r := range []Ref[string]{Literal("all"), tok} {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Ref[string]
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != r {
			t.Errorf("round trip %s: got %+v, want %+v", data, back, r)
		}
	}
}

func TestRef_Resolve(t *testing.T) {
	res := MapResolver{
		"scopes": []any{"a", "b"},
		"name":   "all",
	}

	lit := Literal("none")
	if v, err := lit.Resolve(res); err != nil || v != "none" {
		t.Errorf("literal Resolve = %q, %v", v, err)
	}

	name, _ := TokenRef[string]("%name%")
	if v, err := name.Resolve(res); err != nil || v != "all" {
		t.Errorf("token Resolve = %q, %v", v, err)
	}

	scopes, _ := TokenRef[[]string]("%scopes%")
	got, err := scopes.Resolve(res)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("converted value mismatch (-want +got):\n%s", diff)
	}

	missing, _ := TokenRef[string]("%missing%")
	if _, err := missing.Resolve(res); err == nil {
		t.Error("expected error for undefined data element")
	}
	if _, err := missing.Resolve(nil); err == nil {
		t.Error("expected error without a resolver")
	}

	wrong, _ := TokenRef[map[string]any]("%name%")
	if _, err := wrong.Resolve(res); err == nil {
		t.Error("expected error converting a string into an object")
	}
}

func TestParseContainerID(t *testing.T) {
	tests := []struct {
		in   string
		kind ContainerIDKind
		num  float64
	}{
		{"", ContainerIDEmpty, 0},
		{"   ", ContainerIDEmpty, 0},
		{"5", ContainerIDNumeric, 5},
		{"-1", ContainerIDNumeric, -1},
		{"1.5", ContainerIDNumeric, 1.5},
		{"1e2", ContainerIDNumeric, 100},
		{"0x10", ContainerIDMalformed, 0},
		{"Infinity", ContainerIDMalformed, 0},
		{"%id%", ContainerIDToken, 0},
		{"abc", ContainerIDMalformed, 0},
	}
	for _, tt := range tests {
		got := ParseContainerID(tt.in)
		if got.Kind != tt.kind {
			t.Errorf("ParseContainerID(%q).Kind = %s, want %s", tt.in, got.Kind, tt.kind)
			continue
		}
		if tt.kind == ContainerIDNumeric && got.Number != tt.num {
			t.Errorf("ParseContainerID(%q).Number = %v, want %v", tt.in, got.Number, tt.num)
		}
	}
}

func TestContainerID_JSON(t *testing.T) {
	var ids []ContainerID
	if err := json.Unmarshal([]byte(`[3, "%id%", "7"]`), &ids); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ids[0].IsNumeric() || ids[0].String() != "3" {
		t.Errorf("ids[0] = %+v", ids[0])
	}
	if ids[1].IsNumeric() || ids[1].String() != "%id%" {
		t.Errorf("ids[1] = %+v", ids[1])
	}
	if ids[2].IsNumeric() {
		t.Error("a quoted number stays text until trimmed")
	}

	data, err := json.Marshal(ids)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[3,"%id%","7"]` {
		t.Errorf("marshal = %s", data)
	}

	var bad ContainerID
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Error("expected error for boolean container ID")
	}
}
