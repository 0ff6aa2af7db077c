package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{
			name:  "full version",
			input: "8.2.4",
			want:  Version{Major: 8, Minor: 2, Patch: 4, Precision: 3},
		},
		{
			name:  "v prefix",
			input: "v8.2.4",
			want:  Version{Major: 8, Minor: 2, Patch: 4, Precision: 3},
		},
		{
			name:  "two components",
			input: "8.2",
			want:  Version{Major: 8, Minor: 2, Precision: 2},
		},
		{
			name:  "one component",
			input: "8",
			want:  Version{Major: 8, Precision: 1},
		},
		{
			name:  "pve package suffix",
			input: "6.8.8-pve1",
			want:  Version{Major: 6, Minor: 8, Patch: 8, Precision: 3, Extras: "-pve1"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrEmptyVersion,
		},
		{
			name:    "too many components",
			input:   "1.2.3.4",
			wantErr: ErrTooManyComponents,
		},
		{
			name:    "non numeric",
			input:   "8.x.1",
			wantErr: ErrNonNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseManager(t *testing.T) {
	v, err := ParseManager("pve-manager/8.2.4/faa83925c9641325 (running kernel: 6.8.8-2-pve)")
	require.NoError(t, err)
	assert.Equal(t, 8, v.Major)
	assert.Equal(t, 2, v.Minor)
	assert.Equal(t, 4, v.Patch)

	// bare version with trailing info
	v, err = ParseManager("8.1.10 (running)")
	require.NoError(t, err)
	assert.Equal(t, "8.1.10", v.String())

	_, err = ParseManager("")
	require.ErrorIs(t, err, ErrEmptyVersion)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "8.2.4", b: "8.2.4", want: 0},
		{name: "patch newer", a: "8.2.5", b: "8.2.4", want: 1},
		{name: "minor older", a: "8.1.9", b: "8.2.0", want: -1},
		{name: "major newer", a: "9.0.0", b: "8.9.9", want: 1},
		{name: "precision respected", a: "8.2", b: "8.2.4", want: 0},
		{name: "major only", a: "8", b: "8.9.9", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MustParse(tt.a)
			b := MustParse(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "8", MustParse("8").String())
	assert.Equal(t, "8.2", MustParse("8.2").String())
	assert.Equal(t, "8.2.4", MustParse("8.2.4").String())
}

func TestIsValid(t *testing.T) {
	assert.True(t, MustParse("8.2.4").IsValid())
	assert.False(t, Version{}.IsValid())
	assert.False(t, Version{Major: 1, Precision: 4}.IsValid())
}
