package fuzzy

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase", in: "Comprar Leche", want: "comprar leche"},
		{name: "collapse whitespace", in: "  comprar   leche\t", want: "comprar leche"},
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: "   \n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "equal after normalization", a: "Comprar  Leche", b: "comprar leche", want: true},
		{name: "substring long enough", a: "comprar leche", b: "recuerda comprar leche hoy", want: true},
		{name: "substring too short", a: "ir", b: "ir al cine", want: false},
		{name: "four chars substring", a: "cine", b: "ir al cine", want: true},
		{name: "unrelated", a: "comprar pan", b: "llamar al dentista", want: false},
		{name: "both empty", a: "", b: "", want: true},
		{name: "one empty", a: "", b: "algo", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b); got != tt.want {
				t.Errorf("Similar(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Similarity must not depend on argument order.
			if got := Similar(tt.b, tt.a); got != tt.want {
				t.Errorf("Similar(%q, %q) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSimilar_Reflexive(t *testing.T) {
	for _, s := range []string{"", "a", "comprar leche", "  Mixed   Case "} {
		if !Similar(s, s) {
			t.Errorf("Similar(%q, %q) = false, want true", s, s)
		}
	}
}
