package sheetstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/common"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RangeRef
		wantErr bool
	}{
		{
			name:  "single cell",
			input: "F4",
			want:  RangeRef{Start: CellRef{Col: 5, Row: 4}, End: CellRef{Col: 5, Row: 4}},
		},
		{
			name:  "row span",
			input: "F15:K15",
			want:  RangeRef{Start: CellRef{Col: 5, Row: 15}, End: CellRef{Col: 10, Row: 15}},
		},
		{
			name:  "rectangle",
			input: "G10:U509",
			want:  RangeRef{Start: CellRef{Col: 6, Row: 10}, End: CellRef{Col: 20, Row: 509}},
		},
		{
			name:  "double letter column",
			input: "AA1:AB2",
			want:  RangeRef{Start: CellRef{Col: 26, Row: 1}, End: CellRef{Col: 27, Row: 2}},
		},
		{name: "backwards range", input: "K15:F15", wantErr: true},
		{name: "missing row", input: "F", wantErr: true},
		{name: "missing column", input: "15", wantErr: true},
		{name: "row zero", input: "F0", wantErr: true},
		{name: "too many parts", input: "A1:B2:C3", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.SpreadsheetID = "sheet-id"
	valid.ServiceAccountPath = "/etc/ledgerline/sa.json"

	t.Run("valid service account", func(t *testing.T) {
		cfg := valid
		assert.NoError(t, cfg.Validate())
	})

	t.Run("valid oauth", func(t *testing.T) {
		cfg := valid
		cfg.ServiceAccountPath = ""
		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
		cfg.RefreshToken = "token"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing spreadsheet id", func(t *testing.T) {
		cfg := valid
		cfg.SpreadsheetID = ""
		err := cfg.Validate()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
		assert.ErrorContains(t, err, "spreadsheet id")
	})

	t.Run("no auth method", func(t *testing.T) {
		cfg := valid
		cfg.ServiceAccountPath = ""
		err := cfg.Validate()
		assert.ErrorIs(t, err, common.ErrMissingConfig)
		assert.ErrorContains(t, err, "no authentication")
	})

	t.Run("both auth methods", func(t *testing.T) {
		cfg := valid
		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
		cfg.RefreshToken = "token"
		assert.ErrorContains(t, cfg.Validate(), "multiple authentication")
	})

	t.Run("bad concurrency", func(t *testing.T) {
		cfg := valid
		cfg.MaxConcurrent = 0
		assert.ErrorContains(t, cfg.Validate(), "concurrent")
	})
}
