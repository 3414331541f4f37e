package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/sowmensarker/ambika/internal/config"
	"github.com/sowmensarker/ambika/internal/domain/models"
)

type capturedRow struct {
	sheetRange string
	values     []any
}

type fakeAppender struct {
	rows []capturedRow
	err  error
}

func (f *fakeAppender) AppendRow(_ context.Context, sheetRange string, values []any) error {
	f.rows = append(f.rows, capturedRow{sheetRange: sheetRange, values: values})
	return f.err
}

var sample = models.ActivityRecord{
	Type:        models.ActivitySale,
	Description: "Sold BDT 150 Taka to Karim(01711000000)",
	Amount:      150,
	Date:        "2025-01-10",
	Timestamp:   1736500000000,
}

func TestLedgerMirror_AppendActivity(t *testing.T) {
	rows := &fakeAppender{}
	mirror := NewLedgerMirror(rows, "Ledger!A:E")

	require.NoError(t, mirror.AppendActivity(context.Background(), sample))
	require.Len(t, rows.rows, 1)
	assert.Equal(t, "Ledger!A:E", rows.rows[0].sheetRange)
	assert.Equal(t, []any{"2025-01-10", "Sold Product", sample.Description, 150.0, int64(1736500000000)}, rows.rows[0].values)
}

func TestLedgerMirror_WrapsErrors(t *testing.T) {
	cause := errors.New("quota exceeded")
	mirror := NewLedgerMirror(&fakeAppender{err: cause}, "Ledger!A:E")

	err := mirror.AppendActivity(context.Background(), sample)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestGoogleSheetClient_AppendRow(t *testing.T) {
	var gotPath, gotMethod string
	var body struct {
		Values [][]any `json:"values"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	client, err := NewGoogleSheetClient(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-1"}, nil,
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	require.NoError(t, client.AppendRow(context.Background(), "Ledger!A:E", LedgerRow(sample)))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-1/values/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	require.Len(t, body.Values, 1)
	assert.Equal(t, "Sold Product", body.Values[0][1])

	assert.Error(t, client.AppendRow(context.Background(), "", nil))
}
