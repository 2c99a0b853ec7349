package app

// Seat counts the table accepts. Keep this centralized so tests or local
// runs can adjust the rule without touching multiple call sites.
var AllowedPlayerCounts = map[int]bool{2: true, 4: true}

// MinPlayersToStartGame is the smallest occupied-seat count that may start.
const MinPlayersToStartGame = 2
