package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchName is the authoritative match handler name registered with Nakama.
	MatchName = "bezique_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpPlayCard     int64 = 2
	OpDeclareMeld  int64 = 3
	OpSkipMeld     int64 = 4
	OpSwitchSeven  int64 = 5
	OpRequestState int64 = 6

	// Server -> Client events
	OpLobbyState      int64 = 101
	OpGameStarted     int64 = 102
	OpHandDealt       int64 = 103 // sent privately
	OpTrumpDetermined int64 = 104
	OpCardPlayed      int64 = 105
	OpTrickResolved   int64 = 106
	OpMeldDeclared    int64 = 107
	OpMeldSkipped     int64 = 108
	OpSevenSwitched   int64 = 109
	OpCardsDrawn      int64 = 110
	OpCardDrawn       int64 = 111 // sent privately
	OpLastPhase       int64 = 112
	OpTurnChanged     int64 = 113
	OpRoundEnded      int64 = 114
	OpGameEnded       int64 = 115
	OpSnapshot        int64 = 116
	OpError           int64 = 117
)
