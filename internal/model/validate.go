package model

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/rotisserie/eris"
)

// ParseRecordSet validates and parses the extraction service's response
// text against the RecordSet schema. Every field is required with its
// exact name and primitive type; the first violation aborts the whole
// attempt, with no partial salvage. Errors name the offending field
// path.
func ParseRecordSet(text string) (*RecordSet, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}

	rs := &RecordSet{}

	ci, err := getObject(root, "constituencyInfo")
	if err != nil {
		return nil, err
	}
	if rs.ConstituencyInfo.Assembly, err = parseConstituencyBlock(ci, "constituencyInfo.assembly"); err != nil {
		return nil, err
	}
	if rs.ConstituencyInfo.Parliamentary, err = parseConstituencyBlock(ci, "constituencyInfo.parliamentary"); err != nil {
		return nil, err
	}

	ps, err := getObject(root, "pollingStationInfo")
	if err != nil {
		return nil, err
	}
	if rs.PollingStationInfo, err = parsePollingStation(ps); err != nil {
		return nil, err
	}

	vs, err := getObject(root, "voterStats")
	if err != nil {
		return nil, err
	}
	if rs.VoterStats, err = parseVoterStats(vs); err != nil {
		return nil, err
	}

	rawVoters, err := getArray(root, "voters")
	if err != nil {
		return nil, err
	}
	rs.Voters = make([]VoterRecord, 0, len(rawVoters))
	for i, rv := range rawVoters {
		obj, ok := rv.(map[string]any)
		if !ok {
			return nil, eris.Errorf("recordset: voters[%d]: expected object", i)
		}
		v, err := parseVoter(obj, i)
		if err != nil {
			return nil, err
		}
		rs.Voters = append(rs.Voters, v)
	}

	return rs, nil
}

// ParseChatAnswer validates and parses the QA collaborator's response
// text. Only summary is required; voters, when present, must be valid
// VoterRecord objects.
func ParseChatAnswer(text string) (*ChatAnswer, error) {
	root, err := parseObject(text)
	if err != nil {
		return nil, err
	}

	summary, err := getString(root, "summary")
	if err != nil {
		return nil, err
	}
	ans := &ChatAnswer{Summary: summary}

	rawVoters, ok := root["voters"]
	if !ok || rawVoters == nil {
		return ans, nil
	}
	arr, ok := rawVoters.([]any)
	if !ok {
		return nil, eris.New("recordset: field voters: expected array")
	}
	for i, rv := range arr {
		obj, ok := rv.(map[string]any)
		if !ok {
			return nil, eris.Errorf("recordset: voters[%d]: expected object", i)
		}
		v, err := parseVoter(obj, i)
		if err != nil {
			return nil, err
		}
		ans.Voters = append(ans.Voters, v)
	}
	return ans, nil
}

func parseConstituencyBlock(parent map[string]any, path string) (ConstituencyBlock, error) {
	var b ConstituencyBlock
	key := path[len("constituencyInfo."):]
	obj, ok := parent[key].(map[string]any)
	if !ok {
		return b, eris.Errorf("recordset: field %s: expected object", path)
	}
	var err error
	if b.Number, err = getIntAt(obj, path, "number"); err != nil {
		return b, err
	}
	if b.Name, err = getStringAt(obj, path, "name"); err != nil {
		return b, err
	}
	if b.Category, err = getStringAt(obj, path, "category"); err != nil {
		return b, err
	}
	return b, nil
}

func parsePollingStation(obj map[string]any) (PollingStationInfo, error) {
	var p PollingStationInfo
	var err error
	const path = "pollingStationInfo"
	if p.PartNumber, err = getIntAt(obj, path, "partNumber"); err != nil {
		return p, err
	}
	if p.Name, err = getStringAt(obj, path, "name"); err != nil {
		return p, err
	}
	if p.Address, err = getStringAt(obj, path, "address"); err != nil {
		return p, err
	}
	if p.MainTownOrVillage, err = getStringAt(obj, path, "mainTownOrVillage"); err != nil {
		return p, err
	}
	if p.PoliceStation, err = getStringAt(obj, path, "policeStation"); err != nil {
		return p, err
	}
	if p.District, err = getStringAt(obj, path, "district"); err != nil {
		return p, err
	}
	if p.PinCode, err = getStringAt(obj, path, "pinCode"); err != nil {
		return p, err
	}
	return p, nil
}

func parseVoterStats(obj map[string]any) (VoterStats, error) {
	var s VoterStats
	var err error
	const path = "voterStats"
	if s.StartingSerialNumber, err = getIntAt(obj, path, "startingSerialNumber"); err != nil {
		return s, err
	}
	if s.EndingSerialNumber, err = getIntAt(obj, path, "endingSerialNumber"); err != nil {
		return s, err
	}
	if s.MaleVoters, err = getIntAt(obj, path, "maleVoters"); err != nil {
		return s, err
	}
	if s.FemaleVoters, err = getIntAt(obj, path, "femaleVoters"); err != nil {
		return s, err
	}
	if s.ThirdGenderVoters, err = getIntAt(obj, path, "thirdGenderVoters"); err != nil {
		return s, err
	}
	if s.TotalVoters, err = getIntAt(obj, path, "totalVoters"); err != nil {
		return s, err
	}
	return s, nil
}

func parseVoter(obj map[string]any, idx int) (VoterRecord, error) {
	var v VoterRecord
	var err error
	path := "voters[" + strconv.Itoa(idx) + "]"
	if v.SerialNumber, err = getStringAt(obj, path, "serialNumber"); err != nil {
		return v, err
	}
	if v.VoterID, err = getStringAt(obj, path, "voterId"); err != nil {
		return v, err
	}
	if v.Name, err = getStringAt(obj, path, "name"); err != nil {
		return v, err
	}
	if v.RelationName, err = getStringAt(obj, path, "relationName"); err != nil {
		return v, err
	}
	rel, err := getStringAt(obj, path, "relationType")
	if err != nil {
		return v, err
	}
	switch RelationType(rel) {
	case RelationFather, RelationHusband, RelationMother, RelationOther:
		v.RelationType = RelationType(rel)
	default:
		return v, eris.Errorf("recordset: field %s.relationType: invalid value %q", path, rel)
	}
	if v.HouseNumber, err = getStringAt(obj, path, "houseNumber"); err != nil {
		return v, err
	}
	if v.Age, err = getIntAt(obj, path, "age"); err != nil {
		return v, err
	}
	if v.Age < 0 {
		return v, eris.Errorf("recordset: field %s.age: must be non-negative", path)
	}
	gender, err := getStringAt(obj, path, "gender")
	if err != nil {
		return v, err
	}
	switch Gender(gender) {
	case GenderMale, GenderFemale, GenderOther:
		v.Gender = Gender(gender)
	default:
		return v, eris.Errorf("recordset: field %s.gender: invalid value %q", path, gender)
	}
	return v, nil
}

// --- raw JSON access helpers ---

func parseObject(text string) (map[string]any, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, eris.Wrap(err, "recordset: parse json")
	}
	return root, nil
}

func getObject(parent map[string]any, key string) (map[string]any, error) {
	obj, ok := parent[key].(map[string]any)
	if !ok {
		return nil, eris.Errorf("recordset: field %s: expected object", key)
	}
	return obj, nil
}

func getArray(parent map[string]any, key string) ([]any, error) {
	arr, ok := parent[key].([]any)
	if !ok {
		return nil, eris.Errorf("recordset: field %s: expected array", key)
	}
	return arr, nil
}

func getString(parent map[string]any, key string) (string, error) {
	s, ok := parent[key].(string)
	if !ok {
		return "", eris.Errorf("recordset: field %s: expected string", key)
	}
	return s, nil
}

func getStringAt(parent map[string]any, path, key string) (string, error) {
	s, ok := parent[key].(string)
	if !ok {
		return "", eris.Errorf("recordset: field %s.%s: expected string", path, key)
	}
	return s, nil
}

// getIntAt requires an integral JSON number. A fractional number is a
// type mismatch, same as a string or a missing key.
func getIntAt(parent map[string]any, path, key string) (int, error) {
	f, ok := parent[key].(float64)
	if !ok || math.Trunc(f) != f {
		return 0, eris.Errorf("recordset: field %s.%s: expected integer", path, key)
	}
	return int(f), nil
}
