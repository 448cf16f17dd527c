package model

// RelationType is the labelled relationship printed next to a voter's
// relation name on the roll.
type RelationType string

const (
	RelationFather  RelationType = "father"
	RelationHusband RelationType = "husband"
	RelationMother  RelationType = "mother"
	RelationOther   RelationType = "other"
)

// Gender is the gender column of the roll.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// VoterRecord is one individual's extracted row. Records are immutable
// once produced by extraction; browsing and QA never modify them.
type VoterRecord struct {
	SerialNumber string       `json:"serialNumber"`
	VoterID      string       `json:"voterId"`
	Name         string       `json:"name"`
	RelationName string       `json:"relationName"`
	RelationType RelationType `json:"relationType"`
	HouseNumber  string       `json:"houseNumber"`
	Age          int          `json:"age"`
	Gender       Gender       `json:"gender"`
}

// DisplayKey returns the identity key used for display and
// deduplication: the voter ID when present, else the serial number.
func (v VoterRecord) DisplayKey() string {
	if v.VoterID != "" {
		return v.VoterID
	}
	return v.SerialNumber
}

// ConstituencyBlock is one constituency entry (assembly or parliamentary).
type ConstituencyBlock struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ConstituencyInfo holds the assembly and parliamentary constituency
// blocks printed in the roll header.
type ConstituencyInfo struct {
	Assembly      ConstituencyBlock `json:"assembly"`
	Parliamentary ConstituencyBlock `json:"parliamentary"`
}

// PollingStationInfo describes the polling station for this roll part.
type PollingStationInfo struct {
	PartNumber        int    `json:"partNumber"`
	Name              string `json:"name"`
	Address           string `json:"address"`
	MainTownOrVillage string `json:"mainTownOrVillage"`
	PoliceStation     string `json:"policeStation"`
	District          string `json:"district"`
	PinCode           string `json:"pinCode"`
}

// VoterStats holds the aggregate counters printed on the roll page.
// These are source-document figures reported by the extraction service
// and are advisory: they are never cross-checked against the voter
// collection, and consumers must not assume the gender counts sum to
// totalVoters or to len(voters).
type VoterStats struct {
	StartingSerialNumber int `json:"startingSerialNumber"`
	EndingSerialNumber   int `json:"endingSerialNumber"`
	MaleVoters           int `json:"maleVoters"`
	FemaleVoters         int `json:"femaleVoters"`
	ThirdGenderVoters    int `json:"thirdGenderVoters"`
	TotalVoters          int `json:"totalVoters"`
}

// RecordSet is the full structured extraction result for one document
// page. It is created atomically by a successful extraction run,
// replaced atomically on re-extraction, and cleared atomically on
// session reset; no partial construction is ever visible.
type RecordSet struct {
	ConstituencyInfo   ConstituencyInfo   `json:"constituencyInfo"`
	PollingStationInfo PollingStationInfo `json:"pollingStationInfo"`
	VoterStats         VoterStats         `json:"voterStats"`
	Voters             []VoterRecord      `json:"voters"`
}
