package battle

import (
	"fmt"
	"strings"
)

// LogEntry is one recorded battle event.
type LogEntry struct {
	Round    int
	Actor    string  // ship or player name, "--" for global events
	Category string  // turn, phase, move, attack, boost, message, command
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value (damage, path cost)
}

// String formats the entry as a fixed-width log line.
//
//	[R=003] Corsair   attack   hit              Raider 4 dmg
func (e LogEntry) String() string {
	return fmt.Sprintf("[R=%03d] %-9s %-8s %-16s %s",
		e.Round, e.Actor, e.Category, e.Key, e.Value)
}

// Log is the unbounded, machine-readable record of a battle. The battle
// feeds it every event it emits.
type Log struct {
	entries []LogEntry
	round   int
}

func NewLog() *Log {
	return &Log{round: 1}
}

// Add records a new entry.
func (l *Log) Add(round int, actor, category, key, value string, numVal float64) {
	l.entries = append(l.entries, LogEntry{
		Round:    round,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Record converts a battle event into a log entry.
func (l *Log) Record(ev Event) {
	switch e := ev.(type) {
	case TurnStarted:
		l.round = e.Round
		l.Add(e.Round, e.Player, "turn", "start", "", 0)
	case TurnEnded:
		l.Add(e.Round, e.Player, "turn", "end", "", 0)
	case RoundEnded:
		l.Add(e.Round, "--", "turn", "round_end", "", 0)
	case PhaseChanged:
		l.Add(l.round, "--", "phase", e.To.String(), e.From.String()+" → "+e.To.String(), 0)
	case ShipMoved:
		l.Add(l.round, e.Ship.Name, "move", "move", fmt.Sprintf("%s → %s", e.From, e.To), e.Cost)
	case AttackResolved:
		l.Add(l.round, e.Attacker.Name, "attack", e.Result,
			fmt.Sprintf("%s %d dmg (%s)", e.Defender.Name, e.Damage, e.Weapon), float64(e.Damage))
	case ShipDestroyed:
		l.Add(l.round, e.Ship.Name, "attack", "destroyed", e.At.String(), 0)
	case BoostUsed:
		l.Add(l.round, e.Ship.Name, "boost", "use", e.Boost, 0)
	case GameEnded:
		l.Add(e.Round, "--", "turn", "game_over", e.Winner, 0)
	case Message:
		l.Add(l.round, "--", "message", "text", e.Text, 0)
	case BattleStalled:
		l.Add(l.round, e.Player, "turn", "stalled", "", 0)
	}
}

// Entries returns all recorded entries.
func (l *Log) Entries() []LogEntry {
	return l.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for a specific ship or player name.
func (l *Log) FilterActor(actor string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if e.Actor == actor {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (l *Log) CountCategory(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *Log) LastOf(category, key string) (LogEntry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (l *Log) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *Log) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
