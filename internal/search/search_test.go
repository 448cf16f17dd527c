package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boothworks/voterscan/internal/model"
)

var testVoters = []model.VoterRecord{
	{SerialNumber: "1", VoterID: "ABC1234567", Name: "Kumar Raja", RelationName: "Raja", RelationType: model.RelationFather, HouseNumber: "12", Age: 34, Gender: model.GenderMale},
	{SerialNumber: "2", VoterID: "XYZ7654321", Name: "Lakshmi Devi", RelationName: "Murugan", RelationType: model.RelationHusband, HouseNumber: "14A", Age: 29, Gender: model.GenderFemale},
	{SerialNumber: "13", VoterID: "", Name: "Murugan Vel", RelationName: "Velu", RelationType: model.RelationFather, HouseNumber: "7", Age: 61, Gender: model.GenderMale},
}

func TestFilter_EmptyTermReturnsAll(t *testing.T) {
	assert.Equal(t, testVoters, Filter(testVoters, ""))
	assert.Equal(t, testVoters, Filter(testVoters, "   "))
}

func TestFilter_ByName(t *testing.T) {
	got := Filter(testVoters, "lakshmi")
	assert.Len(t, got, 1)
	assert.Equal(t, "Lakshmi Devi", got[0].Name)
}

func TestFilter_ByVoterID(t *testing.T) {
	got := Filter(testVoters, "xyz76")
	assert.Len(t, got, 1)
	assert.Equal(t, "XYZ7654321", got[0].VoterID)
}

func TestFilter_BySerialNumber(t *testing.T) {
	// "1" is a substring of serials "1" and "13".
	got := Filter(testVoters, "1")
	assert.Len(t, got, 3) // also matches both voter IDs containing "1"
}

func TestFilter_PreservesOrder(t *testing.T) {
	got := Filter(testVoters, "murugan")
	assert.Len(t, got, 2)
	assert.Equal(t, "2", got[0].SerialNumber, "relation names do not match; order follows input")
	assert.Equal(t, "13", got[1].SerialNumber)
}

func TestFilter_NoMatches(t *testing.T) {
	got := Filter(testVoters, "zzzz")
	assert.Empty(t, got)
}

func TestFilter_TamilNFCNormalization(t *testing.T) {
	// Vowel sign O (U+0BCA) decomposes canonically to U+0BC6 + U+0BBE.
	// A record stored composed must match a query typed decomposed.
	composed := "\u0b95\u0bca\u0bb2"
	decomposed := "\u0b95\u0bc6\u0bbe\u0bb2"
	voters := []model.VoterRecord{
		{SerialNumber: "1", Name: composed, Age: 40, Gender: model.GenderMale, RelationType: model.RelationFather},
	}
	got := Filter(voters, decomposed)
	assert.Len(t, got, 1)
}

func TestDebouncer_CommitLatestSeq(t *testing.T) {
	var d Debouncer

	seq := d.Input("kum")
	assert.Equal(t, "kum", d.Raw())
	assert.Empty(t, d.Term(), "term unchanged until commit")
	assert.True(t, d.Pending())

	assert.True(t, d.Commit(seq))
	assert.Equal(t, "kum", d.Term())
	assert.False(t, d.Pending())
}

func TestDebouncer_StaleSeqIgnored(t *testing.T) {
	var d Debouncer

	old := d.Input("k")
	d.Input("ku")

	assert.False(t, d.Commit(old), "timer from a superseded edit must not fire")
	assert.Empty(t, d.Term())
}

func TestDebouncer_RapidTypingCommitsOnlyFinal(t *testing.T) {
	var d Debouncer

	var seqs []int
	for _, s := range []string{"k", "ku", "kum", "kuma", "kumar"} {
		seqs = append(seqs, d.Input(s))
	}

	for _, seq := range seqs[:len(seqs)-1] {
		assert.False(t, d.Commit(seq))
	}
	assert.True(t, d.Commit(seqs[len(seqs)-1]))
	assert.Equal(t, "kumar", d.Term())
}

func TestDebouncer_Flush(t *testing.T) {
	var d Debouncer

	d.Input("lakshmi")
	d.Flush()
	assert.Equal(t, "lakshmi", d.Term())
	assert.False(t, d.Pending())
}
