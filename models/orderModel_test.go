package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderDrugs(t *testing.T) {
	drugs := ParseOrderDrugs(`[{"drugId":"oxaliplatin","dose":"85 mg/m2","day":"1"}]`)
	assert.Len(t, drugs, 1)
	assert.Equal(t, "oxaliplatin", drugs[0].DrugID)
	assert.Equal(t, "85 mg/m2", drugs[0].Dose)

	assert.Empty(t, ParseOrderDrugs(""))
	assert.NotNil(t, ParseOrderDrugs(""))

	// Malformed stored JSON recovers to an empty list.
	assert.Empty(t, ParseOrderDrugs("{not json"))
	assert.Empty(t, ParseOrderDrugs("null"))
}

func TestParseAttachments(t *testing.T) {
	attachments := ParseAttachments(`[{"fileName":"scan.pdf","fileUrl":"/public/uploads/x.pdf","fileType":"application/pdf","fileSize":1024}]`)
	assert.Len(t, attachments, 1)
	assert.Equal(t, "scan.pdf", attachments[0].FileName)
	assert.Equal(t, int64(1024), attachments[0].FileSize)

	assert.Empty(t, ParseAttachments(""))
	assert.Empty(t, ParseAttachments("not json at all"))
}

func TestEncodeJSON(t *testing.T) {
	assert.Equal(t, "[]", EncodeJSON([]OrderDrug{}))
	assert.Equal(t, "[]", EncodeJSON(nil))
	assert.Equal(t, "[]", EncodeJSON([]Attachment(nil)))

	encoded := EncodeJSON([]OrderDrug{{DrugID: "fluorouracil", Dose: "400 mg/m2", Day: "1"}})
	decoded := ParseOrderDrugs(encoded)
	assert.Len(t, decoded, 1)
	assert.Equal(t, "fluorouracil", decoded[0].DrugID)
}
