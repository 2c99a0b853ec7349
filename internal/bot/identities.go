package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one profile from the bot identity pool.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "standard"
	AvatarIndex int    `json:"avatar_index"`
}

// fallbackBotPrefix marks generated bot user IDs when no pool is loaded.
const fallbackBotPrefix = "bot-"

var (
	botIdentities     []BotIdentity
	botIDMap          map[string]bool
	botDisplayNameMap map[string]string
	botConfigMap      map[string]BotIdentity
	loadOnce          sync.Once
	provisionOnce     sync.Once
	loadErr           error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botIDMap = make(map[string]bool)
		botDisplayNameMap = make(map[string]string)
		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				mapIdentity(identity)
			}
		}
	})
	return loadErr
}

func mapIdentity(identity BotIdentity) {
	botIDMap[identity.UserID] = true
	botDisplayNameMap[identity.UserID] = identity.DisplayName
	botConfigMap[identity.UserID] = identity
}

// ProvisionBots ensures that the pool's bot accounts exist in Nakama and
// carry the is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, err)
			}

			mapIdentity(*identity)
			logger.Info("ProvisionBots: bot %s (%s) ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return nil
}

// GetBotConfig returns the full identity configuration for a bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotDisplayName returns the display name for a bot ID, or a generic
// label for generated fallback bots.
func GetBotDisplayName(userID string) string {
	if name := botDisplayNameMap[userID]; name != "" {
		return name
	}
	if strings.HasPrefix(userID, fallbackBotPrefix) {
		return "Bot"
	}
	return ""
}

// GetBotIdentity returns an identity for a seat index, generating a
// throwaway one when the pool file was never loaded.
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		id := fallbackBotPrefix + uuid.NewString()
		return BotIdentity{
			UserID:      id,
			DisplayName: fmt.Sprintf("Bot %d", index+1),
			Difficulty:  "standard",
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user ID belongs to a bot.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, fallbackBotPrefix) {
		return true
	}
	return botIDMap[userID]
}
