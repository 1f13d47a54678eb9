package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/brain"
	"github.com/Garsondee/void-tactics/internal/catalog"
	"github.com/Garsondee/void-tactics/internal/ship"
)

type runStats struct {
	runIndex int
	seed     int64

	winner  string // empty on a draw
	rounds  int
	stalled bool

	firstMoveRound int
	firstHitRound  int
	firstKillRound int

	moves    int
	hits     int
	misses   int
	jams     int
	boosts   int
	kills    int
	dropped  int
	damage   int
	moveCost float64

	fleetTotal map[string]int
	survivors  map[string]int
	destroyed  map[string]struct{}
}

func main() {
	var runs int
	var rounds int
	var seedBase int64
	var seedStep int64
	var scenarioPath string
	var catalogPath string
	var brainKind string

	flag.IntVar(&runs, "runs", 5, "number of headless battles")
	flag.IntVar(&rounds, "rounds", 60, "round limit per battle before a draw")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioPath, "scenario", "", "scenario YAML (default: built-in skirmish)")
	flag.StringVar(&catalogPath, "catalog", "", "catalog YAML (default: built in)")
	flag.StringVar(&brainKind, "brain", "hunter", "brain for every player: "+strings.Join(brain.Kinds, " or "))
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if rounds <= 0 {
		fmt.Println("error: -rounds must be > 0")
		return
	}
	cat := catalog.Default()
	sc := catalog.DefaultScenario()
	var err error
	if catalogPath != "" {
		if cat, err = catalog.Load(catalogPath); err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
	}
	if scenarioPath != "" {
		if sc, err = catalog.LoadScenario(scenarioPath); err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("scenario=%s brain=%s runs=%d rounds=%d seed_base=%d seed_step=%d\n\n", sc.Name, brainKind, runs, rounds, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runBattle(i+1, seed, rounds, cat, sc, brainKind)
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runBattle assembles sc and plays it out with every player under AI
// control, synchronously.
func runBattle(runIndex int, seed int64, rounds int, cat *catalog.Catalog, sc *catalog.Scenario, brainKind string) (runStats, error) {
	setup, err := catalog.Assemble(cat, sc, seed)
	if err != nil {
		return runStats{}, err
	}
	brains := map[*ship.Player]battle.Brain{}
	for i, p := range setup.Players {
		br, err := brain.New(brainKind, seed+int64(i))
		if err != nil {
			return runStats{}, err
		}
		brains[p] = br
	}
	fleets := map[string]int{}
	for _, p := range setup.Players {
		fleets[p.Name()] = len(p.Fleet())
	}
	b := battle.New(setup.Field, setup.Players, battle.Config{
		Brains:      brains,
		Synchronous: true,
		Seed:        seed,
		MaxRounds:   rounds,
	})
	b.Start()
	return collect(runIndex, seed, b, fleets), nil
}

func collect(runIndex int, seed int64, b *battle.Battle, fleets map[string]int) runStats {
	l := b.Log
	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		rounds:         b.Round(),
		stalled:        b.Stalled(),
		firstMoveRound: firstRound(l.Entries(), "move", "move"),
		firstHitRound:  firstRound(l.Entries(), "attack", "hit"),
		firstKillRound: firstRound(l.Entries(), "attack", "destroyed"),
		moves:          l.CountCategory("move", "move"),
		hits:           l.CountCategory("attack", "hit"),
		misses:         l.CountCategory("attack", "missed"),
		jams:           l.CountCategory("attack", "jammed"),
		boosts:         l.CountCategory("boost", "use"),
		kills:          l.CountCategory("attack", "destroyed"),
		dropped:        l.CountCategory("command", "dropped"),
		fleetTotal:     fleets,
		survivors:      map[string]int{},
		destroyed:      map[string]struct{}{},
	}
	if w := b.Winner(); w != nil {
		rs.winner = w.Name()
	}
	for _, e := range l.Filter("attack", "hit") {
		rs.damage += int(e.NumVal)
	}
	for _, e := range l.Filter("move", "move") {
		rs.moveCost += e.NumVal
	}
	for _, e := range l.Filter("attack", "destroyed") {
		rs.destroyed[e.Actor] = struct{}{}
	}
	for _, p := range b.Players() {
		rs.survivors[p.Name()] = len(p.Fleet())
	}
	return rs
}

func firstRound(entries []battle.LogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Round
		}
	}
	return -1
}

// fleetSurvival returns total and surviving ship counts summed over all
// players.
func fleetSurvival(rs runStats) (total, survivors int) {
	for name, n := range rs.fleetTotal {
		total += n
		survivors += rs.survivors[name]
	}
	return total, survivors
}

// detectStalemate flags draws where fleets stayed mostly intact and few
// shots landed.
func detectStalemate(rs runStats) (bool, string) {
	if rs.winner != "" {
		return false, "decisive"
	}
	if rs.stalled {
		return true, "ai_stalled"
	}
	total, survivors := fleetSurvival(rs)
	if total == 0 {
		return false, "empty"
	}
	survival := float64(survivors) / float64(total)
	shots := rs.hits + rs.misses + rs.jams
	hitRate := 0.0
	if shots > 0 {
		hitRate = float64(rs.hits) / float64(shots)
	}
	var reasons []string
	if survival >= 0.75 {
		reasons = append(reasons, "high_mutual_survival")
	}
	if shots == 0 || hitRate < 0.2 {
		reasons = append(reasons, "low_hit_rate")
	}
	if rs.kills > 0 && survival < 0.75 {
		return false, "attrition_draw"
	}
	if len(reasons) == 0 {
		return false, "contested_draw"
	}
	return true, strings.Join(reasons, "+")
}

func printRun(rs runStats) {
	winner := rs.winner
	if winner == "" {
		winner = "draw"
	}
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("result: winner=%s rounds=%d stalled=%v\n", winner, rs.rounds, rs.stalled)
	fmt.Printf("phase_markers: first_move=%d first_hit=%d first_kill=%d\n",
		rs.firstMoveRound, rs.firstHitRound, rs.firstKillRound)
	fmt.Printf("event_totals: moves=%d hits=%d misses=%d jams=%d boosts=%d kills=%d dropped=%d\n",
		rs.moves, rs.hits, rs.misses, rs.jams, rs.boosts, rs.kills, rs.dropped)
	fmt.Printf("damage=%d move_cost=%.1f\n", rs.damage, rs.moveCost)
	for _, name := range sortedNames(rs.fleetTotal) {
		fmt.Printf("  %s survivors=%d/%d\n", name, rs.survivors[name], rs.fleetTotal[name])
	}
	fmt.Printf("destroyed: %s\n", joinSet(rs.destroyed))
	if stale, reason := detectStalemate(rs); stale {
		fmt.Printf("stalemate: %s\n", reason)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalHits := 0
	totalMisses := 0
	totalJams := 0
	totalMoves := 0
	totalKills := 0
	totalDamage := 0
	totalRounds := 0
	stalemates := 0

	hitRounds := make([]int, 0, len(all))
	killRounds := make([]int, 0, len(all))
	wins := map[string]int{}
	destroyedGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalHits += rs.hits
		totalMisses += rs.misses
		totalJams += rs.jams
		totalMoves += rs.moves
		totalKills += rs.kills
		totalDamage += rs.damage
		totalRounds += rs.rounds
		if rs.firstHitRound >= 0 {
			hitRounds = append(hitRounds, rs.firstHitRound)
		}
		if rs.firstKillRound >= 0 {
			killRounds = append(killRounds, rs.firstKillRound)
		}
		if rs.winner == "" {
			wins["draw"]++
		} else {
			wins[rs.winner]++
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
		for name := range rs.destroyed {
			destroyedGlobal[name] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d stalemates=%d\n", len(all), stalemates)
	fmt.Printf("avg_per_run: rounds=%.1f moves=%.1f hits=%.1f misses=%.1f jams=%.1f kills=%.1f damage=%.1f\n",
		avg(totalRounds, len(all)), avg(totalMoves, len(all)), avg(totalHits, len(all)), avg(totalMisses, len(all)),
		avg(totalJams, len(all)), avg(totalKills, len(all)), avg(totalDamage, len(all)))
	fmt.Printf("hit_rate=%.2f\n", ratio(totalHits, totalHits+totalMisses+totalJams))
	fmt.Printf("phase_marker_avg_rounds: first_hit=%s first_kill=%s\n", avgRoundString(hitRounds), avgRoundString(killRounds))
	fmt.Printf("ever_destroyed=%d [%s]\n", len(destroyedGlobal), joinSet(destroyedGlobal))

	fmt.Println("\n--- Results ---")
	for _, name := range sortedNames(wins) {
		fmt.Printf("  %-12s %d (%.0f%%)\n", name, wins[name], ratio(wins[name], len(all))*100)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func ratio(a, b int) float64 { return avg(a, b) }

func avgRoundString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
