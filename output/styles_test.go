package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	if styles == nil {
		t.Fatal("NewStyles should return non-nil Styles")
	}
	if styles.output == nil {
		t.Error("Styles should have non-nil output")
	}
}

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	tests := []struct {
		name   string
		render func(string) string
		text   string
	}{
		{"Success", styles.Success, "done"},
		{"Error", styles.Error, "failed"},
		{"FilePath", styles.FilePath, "/path/to/budget.calc"},
		{"Account", styles.Account, "Expenses:Food"},
		{"Variable", styles.Variable, "food"},
		{"Keyword", styles.Keyword, "max"},
		{"Dim", styles.Dim, "secondary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.render(tt.text); !strings.Contains(result, tt.text) {
				t.Errorf("%s() result should contain %q, got: %s", tt.name, tt.text, result)
			}
		})
	}
}

func TestStylesAmount(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	if result := styles.Amount("$100.50", false); !strings.Contains(result, "100.50") {
		t.Errorf("Amount() result should contain amount, got: %s", result)
	}
	if result := styles.Amount("$-3", true); !strings.Contains(result, "-3") {
		t.Errorf("Amount() result should contain amount, got: %s", result)
	}
}

func TestStylesTiming(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	if result := styles.Timing("5ms", false); !strings.Contains(result, "5ms") {
		t.Errorf("Timing() result should contain timing, got: %s", result)
	}
	if result := styles.Timing("1.2s", true); !strings.Contains(result, "1.2s") {
		t.Errorf("Timing() result should contain timing, got: %s", result)
	}
}

func TestPlainStylesEmitNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	styles := NewPlainStyles(&buf)

	if result := styles.Error("failed"); result != "failed" {
		t.Errorf("plain Error() should return text unchanged, got: %q", result)
	}
	if result := styles.Amount("$5", true); result != "$5" {
		t.Errorf("plain Amount() should return text unchanged, got: %q", result)
	}
}
