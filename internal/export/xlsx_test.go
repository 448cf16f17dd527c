package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/boothworks/voterscan/internal/model"
)

func testRecordSet() *model.RecordSet {
	return &model.RecordSet{
		ConstituencyInfo: model.ConstituencyInfo{
			Assembly:      model.ConstituencyBlock{Number: 42, Name: "Mylapore", Category: "GEN"},
			Parliamentary: model.ConstituencyBlock{Number: 3, Name: "Chennai South", Category: "GEN"},
		},
		PollingStationInfo: model.PollingStationInfo{PartNumber: 117, Name: "School", Address: "12 Beach Road", MainTownOrVillage: "Mylapore", PoliceStation: "Mylapore", District: "Chennai", PinCode: "600004"},
		VoterStats:         model.VoterStats{StartingSerialNumber: 1, EndingSerialNumber: 2, MaleVoters: 1, FemaleVoters: 1, TotalVoters: 2},
		Voters: []model.VoterRecord{
			{SerialNumber: "1", VoterID: "ABC1234567", Name: "Kumar Raja", RelationName: "Raja", RelationType: model.RelationFather, HouseNumber: "12", Age: 34, Gender: model.GenderMale},
			{SerialNumber: "2", VoterID: "", Name: "Lakshmi Devi", RelationName: "Murugan", RelationType: model.RelationHusband, HouseNumber: "14A", Age: 29, Gender: model.GenderFemale},
		},
	}
}

func cellValues(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voters.xlsx")
	require.NoError(t, WriteXLSX(path, testRecordSet()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	voters, ok := f.Sheet["Voters"]
	require.True(t, ok)
	require.Len(t, voters.Rows, 3)
	assert.Equal(t, voterHeader, cellValues(voters.Rows[0]))
	assert.Equal(t, []string{"1", "ABC1234567", "Kumar Raja", "Raja", "father", "12", "34", "male"}, cellValues(voters.Rows[1]))
	assert.Equal(t, []string{"2", "", "Lakshmi Devi", "Murugan", "husband", "14A", "29", "female"}, cellValues(voters.Rows[2]))

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, []string{"Assembly Constituency", "42", "Mylapore", "GEN"}, cellValues(summary.Rows[0]))
}

func TestWriteXLSX_NoVoters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	rs := testRecordSet()
	rs.Voters = nil

	require.NoError(t, WriteXLSX(path, rs))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheet["Voters"].Rows, 1, "header only")
}

func TestWriteXLSX_BadPath(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "missing", "deep", "voters.xlsx"), testRecordSet())
	require.Error(t, err)
}
