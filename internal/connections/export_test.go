package connections

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	note := "Let's schedule a call"
	respondedAt := time.Now()
	conns := []*Connection{
		{
			ID:            uuid.New(),
			RequesterName: "Alex Rivera",
			Status:        StatusAccepted,
			Message:       "Seeking seed funding",
			ResponseMessage: &note,
			ProjectData: ProjectSnapshot{
				Title:     "DevMatch",
				Progress:  60,
				TechStack: []string{"Go", "PostgreSQL"},
			},
			CreatedAt:   time.Now().Add(-24 * time.Hour),
			RespondedAt: &respondedAt,
		},
		{
			ID:            uuid.New(),
			RequesterName: "Jamie Park",
			Status:        StatusPending,
			Message:       "Early feedback welcome",
			ProjectData:   ProjectSnapshot{Title: "ShipFast", Progress: 30},
			CreatedAt:     time.Now(),
		},
	}

	data, err := ExportXLSX(conns)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Project", rows[0][0])
	assert.Equal(t, "DevMatch", rows[1][0])
	assert.Equal(t, "accepted", rows[1][2])
	assert.Equal(t, "ShipFast", rows[2][0])
}
