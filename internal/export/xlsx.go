// Package export writes extracted record sets to spreadsheet files.
package export

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/boothworks/voterscan/internal/model"
)

var voterHeader = []string{
	"Serial Number", "Voter ID", "Name", "Relation Name",
	"Relation Type", "House Number", "Age", "Gender",
}

// WriteXLSX writes rs to path as a workbook: a Voters sheet with one
// row per record and a Summary sheet with the roll-header metadata.
func WriteXLSX(path string, rs *model.RecordSet) error {
	f := xlsx.NewFile()

	voters, err := f.AddSheet("Voters")
	if err != nil {
		return eris.Wrap(err, "export: add voters sheet")
	}
	addRow(voters, voterHeader...)
	for _, v := range rs.Voters {
		addRow(voters,
			v.SerialNumber,
			v.VoterID,
			v.Name,
			v.RelationName,
			string(v.RelationType),
			v.HouseNumber,
			strconv.Itoa(v.Age),
			string(v.Gender),
		)
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	addRow(summary, "Assembly Constituency", strconv.Itoa(rs.ConstituencyInfo.Assembly.Number), rs.ConstituencyInfo.Assembly.Name, rs.ConstituencyInfo.Assembly.Category)
	addRow(summary, "Parliamentary Constituency", strconv.Itoa(rs.ConstituencyInfo.Parliamentary.Number), rs.ConstituencyInfo.Parliamentary.Name, rs.ConstituencyInfo.Parliamentary.Category)
	addRow(summary, "Polling Station", strconv.Itoa(rs.PollingStationInfo.PartNumber), rs.PollingStationInfo.Name, rs.PollingStationInfo.Address)
	addRow(summary, "Town/Village", rs.PollingStationInfo.MainTownOrVillage)
	addRow(summary, "Police Station", rs.PollingStationInfo.PoliceStation)
	addRow(summary, "District", rs.PollingStationInfo.District, rs.PollingStationInfo.PinCode)
	addRow(summary)
	addRow(summary, "Serial Range", strconv.Itoa(rs.VoterStats.StartingSerialNumber), strconv.Itoa(rs.VoterStats.EndingSerialNumber))
	addRow(summary, "Male Voters", strconv.Itoa(rs.VoterStats.MaleVoters))
	addRow(summary, "Female Voters", strconv.Itoa(rs.VoterStats.FemaleVoters))
	addRow(summary, "Third Gender Voters", strconv.Itoa(rs.VoterStats.ThirdGenderVoters))
	addRow(summary, "Total Voters", strconv.Itoa(rs.VoterStats.TotalVoters))

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
