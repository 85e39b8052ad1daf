package discord

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/npcbot/internal/backup"
	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/domain"
)

// backupChannelReply makes the backup channel already exist
func backupChannelReply(req *http.Request) (int, string, bool) {
	if req.Method == http.MethodGet && strings.HasSuffix(req.URL.Path, "/guilds/"+testGuildID+"/channels") {
		return http.StatusOK, `[{"id":"backup-1","name":"` + BackupChannel + `","type":0}]`, true
	}
	return 0, "", false
}

func TestCreateCharacterCommand(t *testing.T) {
	t.Run("creates and refreshes the backup", func(t *testing.T) {
		tc := SetupTestContext(t)
		tc.Services.Backups = tc.Backups
		tc.Reply = backupChannelReply
		_, handler := CreateCharacterCommand()

		tc.Characters.On("Create", mock.Anything, testGuildID, "Bob", "http://img", "", testUserID).
			Return(&domain.Character{Name: "Bob"}, nil)
		tc.Backups.On("Export", mock.Anything, testGuildID).Return([]byte(`{"Bob":{}}`), nil)

		handler(tc.Session, newCommand(CmdCreateCharacter, strOpt(OptName, "Bob"), strOpt(OptImageURL, "http://img")), tc.Services)

		assert.Equal(t, "Character `Bob` created and saved for this guild.", tc.LastResponse(t))
		uploads := tc.Requests(http.MethodPost, "/channels/backup-1/messages")
		require.Len(t, uploads, 1)
		assert.True(t, bytes.Contains(uploads[0].Body, []byte(backup.FileName)))
		tc.Characters.AssertExpectations(t)
		tc.Backups.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := CreateCharacterCommand()
		tc.Characters.On("Create", mock.Anything, testGuildID, "Bob", "", "", testUserID).
			Return(nil, domain.ErrDuplicateName)

		handler(tc.Session, newCommand(CmdCreateCharacter, strOpt(OptName, "Bob")), tc.Services)

		assert.Equal(t, "A character with the name `Bob` already exists in this guild!", tc.LastResponse(t))
	})

	t.Run("auto export failure is not shown", func(t *testing.T) {
		tc := SetupTestContext(t)
		tc.Services.Backups = tc.Backups
		_, handler := CreateCharacterCommand()
		tc.Characters.On("Create", mock.Anything, testGuildID, "Bob", "", "", testUserID).
			Return(&domain.Character{Name: "Bob"}, nil)
		tc.Backups.On("Export", mock.Anything, testGuildID).Return(nil, assert.AnError)

		handler(tc.Session, newCommand(CmdCreateCharacter, strOpt(OptName, "Bob")), tc.Services)

		assert.Equal(t, "Character `Bob` created and saved for this guild.", tc.LastResponse(t))
	})
}

func TestEditCharacterCommand(t *testing.T) {
	t.Run("only passed options change", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := EditCharacterCommand()

		want := domain.CharacterPatch{Background: strPtr("")}
		tc.Characters.On("Edit", mock.Anything, testGuildID, "Bob", want, testUserID).
			Return(&domain.Character{Name: "Bob"}, nil)

		handler(tc.Session, newCommand(CmdEditCharacter, strOpt(OptName, "Bob"), strOpt(OptBackground, "")), tc.Services)

		assert.Equal(t, "Character `Bob` has been updated.", tc.LastResponse(t))
		tc.Characters.AssertExpectations(t)
	})

	t.Run("nothing to change", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := EditCharacterCommand()

		handler(tc.Session, newCommand(CmdEditCharacter, strOpt(OptName, "Bob")), tc.Services)

		assert.Equal(t, MsgNothingToChange, tc.LastResponse(t))
		tc.Characters.AssertNotCalled(t, "Edit")
	})

	t.Run("rename collision names the new name", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := EditCharacterCommand()
		tc.Characters.On("Edit", mock.Anything, testGuildID, "Bob", mock.Anything, testUserID).
			Return(nil, domain.ErrDuplicateName)

		handler(tc.Session, newCommand(CmdEditCharacter, strOpt(OptName, "Bob"), strOpt(OptNewName, "Alice")), tc.Services)

		assert.Equal(t, "A character with the name `Alice` already exists in this guild!", tc.LastResponse(t))
	})

	t.Run("not the owner", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := EditCharacterCommand()
		tc.Characters.On("Edit", mock.Anything, testGuildID, "Bob", mock.Anything, testUserID).
			Return(nil, domain.ErrNotOwner)

		handler(tc.Session, newCommand(CmdEditCharacter, strOpt(OptName, "Bob"), strOpt(OptImageURL, "x")), tc.Services)

		assert.Equal(t, MsgNotOwner, tc.LastResponse(t))
	})
}

func TestDeleteCharacterCommand(t *testing.T) {
	tc := SetupTestContext(t)
	_, handler := DeleteCharacterCommand()
	tc.Characters.On("Delete", mock.Anything, testGuildID, "Bob", testUserID).Return(nil).Once()
	tc.Characters.On("Delete", mock.Anything, testGuildID, "Ghost", testUserID).Return(domain.ErrCharacterNotFound).Once()

	handler(tc.Session, newCommand(CmdDeleteCharacter, strOpt(OptName, "Bob")), tc.Services)
	assert.Equal(t, "Character `Bob` has been deleted.", tc.LastResponse(t))

	handler(tc.Session, newCommand(CmdDeleteCharacter, strOpt(OptName, "Ghost")), tc.Services)
	assert.Equal(t, "Character `Ghost` does not exist in this guild.", tc.LastResponse(t))
}

func TestDeleteAllCharactersCommand(t *testing.T) {
	t.Run("confirmed exports an empty backup", func(t *testing.T) {
		tc := SetupTestContext(t)
		tc.Services.Backups = tc.Backups
		tc.Reply = backupChannelReply
		_, handler := DeleteAllCharactersCommand()

		tc.Characters.On("DeleteAll", mock.Anything, testGuildID, testUserID, mock.AnythingOfType("*discord.ButtonPrompter")).
			Return(character.DeleteAllResult{Outcome: character.DeleteAllConfirmed, Deleted: 3}, nil)
		tc.Backups.On("Export", mock.Anything, testGuildID).Return(nil, backup.ErrNoCharacters)

		handler(tc.Session, newCommand(CmdDeleteAll), tc.Services)

		assert.Equal(t, MsgDeleteAllDone, tc.LastResponse(t))
		uploads := tc.Requests(http.MethodPost, "/channels/backup-1/messages")
		require.Len(t, uploads, 1)
		assert.True(t, bytes.Contains(uploads[0].Body, []byte("{}")))
	})

	t.Run("cancelled", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := DeleteAllCharactersCommand()
		tc.Characters.On("DeleteAll", mock.Anything, testGuildID, testUserID, mock.Anything).
			Return(character.DeleteAllResult{Outcome: character.DeleteAllCancelled}, nil)

		handler(tc.Session, newCommand(CmdDeleteAll), tc.Services)

		assert.Equal(t, MsgDeleteAllCancel, tc.LastResponse(t))
	})

	t.Run("already pending", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := DeleteAllCharactersCommand()
		tc.Characters.On("DeleteAll", mock.Anything, testGuildID, testUserID, mock.Anything).
			Return(character.DeleteAllResult{}, domain.ErrConfirmationPending)

		handler(tc.Session, newCommand(CmdDeleteAll), tc.Services)

		assert.Equal(t, MsgDeleteAllPending, tc.LastResponse(t))
	})
}

func TestAllowCharacterCommand(t *testing.T) {
	tc := SetupTestContext(t)
	_, handler := AllowCharacterCommand()
	tc.Characters.On("GrantAccess", mock.Anything, testGuildID, "Bob", testUserID, "user-2").
		Return(&domain.Character{Name: "Bob"}, nil)

	handler(tc.Session, newCommand(CmdAllowCharacter, strOpt(OptCharacter, "Bob"), userOpt(OptUser, "user-2")), tc.Services)

	assert.Equal(t, "User <@user-2> can now use the character `Bob` in this guild.", tc.LastResponse(t))
	tc.Characters.AssertExpectations(t)
}

func TestViewCharacterCommand(t *testing.T) {
	t.Run("allowed user gets the file", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := ViewCharacterCommand()
		tc.Characters.On("Get", mock.Anything, testGuildID, "Bob").
			Return(&domain.Character{Name: "Bob", OwnerID: testUserID, AllowedUsers: []string{testUserID}}, nil)

		handler(tc.Session, newCommand(CmdViewCharacter, strOpt(OptCharacter, "Bob")), tc.Services)

		assert.Equal(t, MsgSuccess, tc.LastResponse(t))
		uploads := tc.Requests(http.MethodPost, "/channels/channel-1/messages")
		require.Len(t, uploads, 1)
		assert.True(t, bytes.Contains(uploads[0].Body, []byte(`"Bob"`)))
	})

	t.Run("others are refused", func(t *testing.T) {
		tc := SetupTestContext(t)
		_, handler := ViewCharacterCommand()
		tc.Characters.On("Get", mock.Anything, testGuildID, "Bob").
			Return(&domain.Character{Name: "Bob", OwnerID: "owner", AllowedUsers: []string{"owner"}}, nil)

		handler(tc.Session, newCommand(CmdViewCharacter, strOpt(OptCharacter, "Bob")), tc.Services)

		assert.Equal(t, MsgNotAllowed, tc.LastResponse(t))
		assert.Empty(t, tc.Requests(http.MethodPost, "/channels/channel-1/messages"))
	})
}
