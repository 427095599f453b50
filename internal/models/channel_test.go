package models_test

import (
	"testing"

	"tgfilebot/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestChannelValidate enforces the private/public field pairing.
func TestChannelValidate(t *testing.T) {
	// A private channel is only reachable through its invite link.
	private := &models.SubscribeChannel{ChannelID: "-1001", Private: true}
	assert.ErrorIs(t, private.Validate(), models.ErrPrivateChannelNeedsLink)

	private.InviteLink = "https://t.me/+abc"
	assert.NoError(t, private.Validate())

	// A public channel needs its username for the join button.
	public := &models.SubscribeChannel{ChannelID: "-1002"}
	assert.ErrorIs(t, public.Validate(), models.ErrPublicChannelNeedsName)

	public.Username = "mychannel"
	assert.NoError(t, public.Validate())

	// No identifier at all.
	assert.ErrorIs(t, (&models.SubscribeChannel{}).Validate(), models.ErrChannelIdentifierMissing)
}

// TestChannelBeforeSave_NormalizesUsername verifies that pasted links
// and @-handles are stored as the bare username.
func TestChannelBeforeSave_NormalizesUsername(t *testing.T) {
	cases := map[string]string{
		"https://t.me/mychannel": "mychannel",
		"@mychannel":             "mychannel",
		"mychannel":              "mychannel",
	}
	for input, want := range cases {
		ch := &models.SubscribeChannel{Username: input}
		assert.NoError(t, ch.BeforeSave(nil))
		assert.Equal(t, want, ch.Username)
	}
}

// TestChannelLinkAndTitle covers both channel flavours.
func TestChannelLinkAndTitle(t *testing.T) {
	public := &models.SubscribeChannel{ChannelID: "-1002", Username: "mychannel"}
	assert.Equal(t, "https://t.me/mychannel", public.Link())
	assert.Equal(t, "@mychannel", public.Title())

	private := &models.SubscribeChannel{ChannelID: "-1001", Private: true, InviteLink: "https://t.me/+abc"}
	assert.Equal(t, "https://t.me/+abc", private.Link())
	assert.Equal(t, "-1001", private.Title())
}

// TestDetectFileType maps extensions into the search categories.
func TestDetectFileType(t *testing.T) {
	assert.Equal(t, models.FileTypePDF, models.DetectFileType("report.PDF"))
	assert.Equal(t, models.FileTypeDoc, models.DetectFileType("thesis.docx"))
	assert.Equal(t, models.FileTypeZip, models.DetectFileType("archive.tar"))
	assert.Equal(t, models.FileTypeMedia, models.DetectFileType("cover.jpg"))
	assert.Equal(t, models.FileTypeOther, models.DetectFileType("notes.txt"))
	assert.Equal(t, models.FileTypeOther, models.DetectFileType("README"))
}

// TestTextBearing gates which types go through content extraction.
func TestTextBearing(t *testing.T) {
	assert.True(t, models.TextBearing(models.FileTypePDF))
	assert.True(t, models.TextBearing(models.FileTypeDoc))
	assert.True(t, models.TextBearing(models.FileTypeOther))
	assert.False(t, models.TextBearing(models.FileTypeMedia))
	assert.False(t, models.TextBearing(models.FileTypeZip))
}
