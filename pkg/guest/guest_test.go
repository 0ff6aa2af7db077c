package guest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxmox-kit/cluster-guest-tools/pkg/errors"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "simple", raw: "100", want: 100},
		{name: "large", raw: "999999", want: 999999},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-100", wantErr: true},
		{name: "plus sign", raw: "+100", wantErr: true},
		{name: "non numeric", raw: "vm100", wantErr: true},
		{name: "float", raw: "100.5", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace", raw: " 100", wantErr: true},
		{name: "hex", raw: "0x64", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidIdentifier))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindPlaceholder(t *testing.T) {
	assert.Equal(t, "{vmid}", KindVM.Placeholder())
	assert.Equal(t, "{ctid}", KindCT.Placeholder())
}

func TestKindTool(t *testing.T) {
	assert.Equal(t, "qm", KindVM.Tool())
	assert.Equal(t, "pct", KindCT.Tool())
}

func TestKindIsValid(t *testing.T) {
	assert.True(t, KindVM.IsValid())
	assert.True(t, KindCT.IsValid())
	assert.False(t, Kind("lxc").IsValid())
	assert.False(t, Kind("").IsValid())
}

func TestLocationString(t *testing.T) {
	loc := Location{ID: 100, Kind: KindVM, Node: "pve1"}
	assert.Equal(t, "vm/100 on pve1", loc.String())
}
