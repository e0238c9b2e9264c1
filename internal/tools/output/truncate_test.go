package output

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// deepRecord builds the canonical nested test record: a package object at
// depth 5 holding an oversized readme.
func deepRecord(readme string) map[string]interface{} {
	return map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{
				"server": map[string]interface{}{
					"packages": []interface{}{
						map[string]interface{}{
							"readme":   readme,
							"registry": "npm",
						},
					},
				},
			},
		},
	}
}

func TestShapeSmallRecordUnchanged(t *testing.T) {
	input := map[string]interface{}{
		"a":      "short",
		"count":  float64(3),
		"active": true,
		"empty":  nil,
		"nested": map[string]interface{}{"b": []interface{}{"x", "y"}},
	}

	got := Shape(input, nil)

	if !reflect.DeepEqual(got, input) {
		t.Errorf("Shape() changed a small record:\ngot  %#v\nwant %#v", got, input)
	}
}

func TestShapeIsIdempotentOnSmallRecords(t *testing.T) {
	input := map[string]interface{}{"a": "short"}

	once := Shape(input, nil)
	twice := Shape(once, []string{"does.not.match"})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed output:\nonce  %#v\ntwice %#v", once, twice)
	}
}

func TestShapeLongString(t *testing.T) {
	long := strings.Repeat("x", 300)
	input := map[string]interface{}{"a": long}

	got := Shape(input, nil).(map[string]interface{})

	want := `[TRUNCATED - use expand_fields: ["a"] to see full content]`
	if got["a"] != want {
		t.Errorf("shaped value = %q, want %q", got["a"], want)
	}
}

func TestShapeStringAtLimitUnchanged(t *testing.T) {
	exact := strings.Repeat("x", DefaultStringLimit)
	input := map[string]interface{}{"a": exact}

	got := Shape(input, nil).(map[string]interface{})

	if got["a"] != exact {
		t.Errorf("string of exactly %d chars was truncated", DefaultStringLimit)
	}
}

func TestShapeDeepCollapse(t *testing.T) {
	input := deepRecord(strings.Repeat("r", 2000))

	got := Shape(input, nil)

	// The package object sits at depth 5 and serializes well past the
	// deep limit, so it collapses wholesale.
	packages := got.(map[string]interface{})["servers"].([]interface{})[0].(map[string]interface{})["server"].(map[string]interface{})["packages"].([]interface{})
	want := `[DEEP OBJECT TRUNCATED - use expand_fields: ["servers[].server.packages[]"] to see full content]`
	if packages[0] != want {
		t.Errorf("collapsed value = %v, want %q", packages[0], want)
	}

	// None of the collapsed subtree's content may survive.
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("output not serializable: %v", err)
	}
	if strings.Contains(string(data), "readme") {
		t.Error("descendant of collapsed node appeared in output")
	}
}

func TestShapeExpandSuppressesDeepCollapse(t *testing.T) {
	input := deepRecord(strings.Repeat("r", 2000))

	got := Shape(input, []string{"servers[].server.packages[]"})

	if !reflect.DeepEqual(got, input) {
		t.Errorf("expanded record differs from input:\ngot  %#v\nwant %#v", got, input)
	}
}

func TestShapeExpandAncestorSuppressesAllTruncation(t *testing.T) {
	input := deepRecord(strings.Repeat("r", 2000))

	// Naming the subtree root once exempts everything inside it.
	got := Shape(input, []string{"servers"})

	if !reflect.DeepEqual(got, input) {
		t.Errorf("subtree expansion did not preserve input")
	}
}

func TestShapeStringRuleWinsForStringLeaves(t *testing.T) {
	// e is itself the over-length string at depth 5; the string rule, not
	// the deep-collapse rule, must fire.
	input := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": map[string]interface{}{
					"d": map[string]interface{}{
						"e": strings.Repeat("z", 1000),
					},
				},
			},
		},
	}

	got := Shape(input, nil)

	e := got.(map[string]interface{})["a"].(map[string]interface{})["b"].(map[string]interface{})["c"].(map[string]interface{})["d"].(map[string]interface{})["e"]
	want := `[TRUNCATED - use expand_fields: ["a.b.c.d.e"] to see full content]`
	if e != want {
		t.Errorf("leaf = %q, want string-kind placeholder %q", e, want)
	}
}

func TestShapeShallowImmunity(t *testing.T) {
	// A huge object entirely above the depth threshold is never collapsed,
	// only its over-length string leaves are.
	wide := make(map[string]interface{}, 200)
	for i := 0; i < 200; i++ {
		wide["key"+strings.Repeat("a", i%10)+string(rune('a'+i%26))] = strings.Repeat("v", 150)
	}
	input := map[string]interface{}{"meta": wide}

	got := Shape(input, nil)

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("output not serializable: %v", err)
	}
	if strings.Contains(string(data), "DEEP OBJECT TRUNCATED") {
		t.Error("node above the depth threshold was deep-collapsed")
	}
}

func TestShapeSmallDeepNodeSurvives(t *testing.T) {
	// Deep but small: under the deep limit, nothing collapses.
	input := deepRecord("tiny readme")

	got := Shape(input, nil)

	if !reflect.DeepEqual(got, input) {
		t.Errorf("small deep record changed:\ngot  %#v\nwant %#v", got, input)
	}
}

func TestShapeDoesNotMutateInput(t *testing.T) {
	long := strings.Repeat("x", 300)
	input := deepRecord(long)
	snapshot, err := json.Marshal(input)
	if err != nil {
		t.Fatal(err)
	}

	_ = Shape(input, nil)
	_ = Shape(input, []string{"servers"})

	after, err := json.Marshal(input)
	if err != nil {
		t.Fatal(err)
	}
	if string(snapshot) != string(after) {
		t.Error("input record was mutated by Shape")
	}
}

func TestShapeDeterministic(t *testing.T) {
	input := deepRecord(strings.Repeat("r", 2000))
	fields := []string{"servers[].server"}

	first, err := json.Marshal(Shape(input, fields))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Shape(input, fields))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("same inputs produced different outputs")
	}
}

func TestShapeScalarRootPassesThrough(t *testing.T) {
	for _, v := range []interface{}{nil, true, float64(42), "short"} {
		if got := Shape(v, nil); !reflect.DeepEqual(got, v) {
			t.Errorf("Shape(%v) = %v, want unchanged", v, got)
		}
	}
}

func TestShapeWithConfigCustomLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StringLimit = 5
	cfg.DepthThreshold = 2
	cfg.DeepLimit = 10

	input := map[string]interface{}{
		"short": "ok",
		"long":  "over the limit",
		"outer": map[string]interface{}{
			"inner": map[string]interface{}{
				"padding": "0123456789",
			},
		},
	}

	got := ShapeWithConfig(input, nil, cfg).(map[string]interface{})

	if got["short"] != "ok" {
		t.Errorf("short leaf changed: %v", got["short"])
	}
	if got["long"] != `[TRUNCATED - use expand_fields: ["long"] to see full content]` {
		t.Errorf("long leaf = %v", got["long"])
	}
	inner := got["outer"].(map[string]interface{})["inner"]
	if inner != `[DEEP OBJECT TRUNCATED - use expand_fields: ["outer.inner"] to see full content]` {
		t.Errorf("inner = %v, want deep placeholder", inner)
	}
}

func TestShapeRecursionCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRecursionDepth = 3

	leaf := map[string]interface{}{"d": map[string]interface{}{"e": "v"}}
	input := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": leaf,
			},
		},
	}

	// Even with the whole tree expanded, the ceiling collapses containers
	// at the limit.
	got := ShapeWithConfig(input, []string{"a"}, cfg)

	c := got.(map[string]interface{})["a"].(map[string]interface{})["b"].(map[string]interface{})["c"]
	if _, isMap := c.(map[string]interface{}); isMap {
		t.Error("container at recursion ceiling was not collapsed")
	}
}

func TestShapeOutputAlwaysSerializable(t *testing.T) {
	inputs := []interface{}{
		deepRecord(strings.Repeat("r", 5000)),
		map[string]interface{}{"a": strings.Repeat("x", 10000)},
		[]interface{}{map[string]interface{}{"k": []interface{}{"v"}}},
	}
	for _, input := range inputs {
		if _, err := json.Marshal(Shape(input, nil)); err != nil {
			t.Errorf("output not serializable: %v", err)
		}
	}
}
