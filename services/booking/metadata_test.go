package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMetadata() SessionMetadata {
	return SessionMetadata{
		ExternalID:  "ext-1",
		PatientName: "Asha Rao",
		PatientAge:  34,
		Gender:      "female",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		HospitalID:  "hosp-1",
		ItemType:    ItemDoctor,
		ItemID:      "doc-1",
		TemplateID:  "t1",
		Date:        "2024-06-10",
		Start:       540,
		Mode:        "physical",
	}
}

func TestSessionMetadataRoundTrip(t *testing.T) {
	meta := validMetadata()

	raw, err := meta.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSessionMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, &meta, decoded)
	assert.True(t, decoded.HasOccurrence())
}

func TestSessionMetadataEncodeRejectsIncomplete(t *testing.T) {
	meta := validMetadata()
	meta.ExternalID = ""
	_, err := meta.Encode()
	assert.Error(t, err)

	meta = validMetadata()
	meta.ItemType = "subscription"
	_, err = meta.Encode()
	assert.Error(t, err)
}

func TestDecodeSessionMetadataFailsClosed(t *testing.T) {
	meta := validMetadata()
	raw, err := meta.Encode()
	require.NoError(t, err)

	for _, key := range []string{"external_id", "patient_name", "patient_age", "phone", "email", "hospital_id", "item_type", "item_id"} {
		broken := make(map[string]string, len(raw))
		for k, v := range raw {
			broken[k] = v
		}
		delete(broken, key)

		_, err := DecodeSessionMetadata(broken)
		assert.Error(t, err, "missing %s must fail closed", key)
	}

	_, err = DecodeSessionMetadata(nil)
	assert.Error(t, err)
}

func TestDecodeSessionMetadataWithoutOccurrence(t *testing.T) {
	meta := validMetadata()
	meta.TemplateID = ""
	meta.Date = ""
	meta.Start = 0
	meta.Mode = ""
	meta.ItemType = ItemPackage
	meta.ItemID = "pkg-1"

	raw, err := meta.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSessionMetadata(raw)
	require.NoError(t, err)
	assert.False(t, decoded.HasOccurrence())
}
