package server

import "fmt"

// NPCArchetype is the static template an npcState is stamped from.
type NPCArchetype struct {
	ID       string
	Name     string
	WeaponID string

	AttackLevel    int
	StrengthLevel  int
	DefenceLevel   int
	HitpointsLevel int

	AggroRange        int
	LeashRange        int
	RespawnDelayTicks uint64

	// WanderChance is the per-tick probability, in percent, that an idle
	// NPC takes a random step.
	WanderChance int
}

var archetypeGoblin = NPCArchetype{
	ID:                "goblin",
	Name:              "Goblin",
	AttackLevel:       2,
	StrengthLevel:     2,
	DefenceLevel:      1,
	HitpointsLevel:    5,
	AggroRange:        4,
	LeashRange:        10,
	RespawnDelayTicks: 200,
	WanderChance:      5,
}

type npcAIState string

const (
	aiIdle      npcAIState = "idle"
	aiChasing   npcAIState = "chasing"
	aiReturning npcAIState = "returning"
)

// spawnInitialNPCs stamps the configured goblin population onto random free
// tiles. Placement draws from the AI stream, so the layout is reproducible
// per world seed.
func (w *World) spawnInitialNPCs() {
	for i := 0; i < w.cfg.GoblinCount; i++ {
		w.spawnNPC(archetypeGoblin, fmt.Sprintf("npc-%s-%d", archetypeGoblin.ID, i+1))
	}
}

func (w *World) spawnNPC(arch NPCArchetype, id string) {
	x, y := w.randomFreeTile()
	n := &npcState{
		actorState: actorState{
			Actor: Actor{
				ID:       id,
				Kind:     ActorKindNPC,
				X:        x,
				Y:        y,
				Facing:   defaultFacing,
				Alive:    true,
				WeaponID: arch.WeaponID,
			},
			Skills: Skills{
				Attack:    NewSkill(arch.AttackLevel),
				Strength:  NewSkill(arch.StrengthLevel),
				Defence:   NewSkill(arch.DefenceLevel),
				Hitpoints: NewSkill(arch.HitpointsLevel),
			},
			SpawnX: x,
			SpawnY: y,
		},
		Archetype:         arch,
		aiState:           aiIdle,
		aggroRange:        arch.AggroRange,
		leashRange:        arch.LeashRange,
		respawnDelayTicks: arch.RespawnDelayTicks,
	}
	n.syncDerived()
	n.HP = n.MaxHP
	if !w.occupancy.TryClaim(x, y, id) {
		return
	}
	w.npcs[id] = n
}

func (w *World) randomFreeTile() (int, int) {
	for attempt := 0; attempt < 256; attempt++ {
		x := w.aiRNG.Intn(w.cfg.Width)
		y := w.aiRNG.Intn(w.cfg.Height)
		if w.occupancy.IsFree(x, y) {
			return x, y
		}
	}
	return w.findSpawnTile()
}

// npcCommands runs one AI decision per living NPC and returns the intents
// they produce. The intents are prepended to the tick's command list and
// resolve through the same movement and combat phases as player commands,
// so NPC moves settle before any attack is evaluated.
func (w *World) npcCommands(tick uint64) []Command {
	var cmds []Command
	for _, id := range w.sortedNPCIDs() {
		n := w.npcs[id]
		if !n.Alive {
			continue
		}
		switch n.aiState {
		case aiChasing:
			cmds = append(cmds, w.chaseCommands(n)...)
		case aiReturning:
			cmds = append(cmds, w.returnCommands(n)...)
		default:
			cmds = append(cmds, w.idleCommands(n)...)
		}
	}
	return cmds
}

func (w *World) idleCommands(n *npcState) []Command {
	if target := w.nearestPlayerWithin(n, n.aggroRange); target != nil {
		n.aiState = aiChasing
		n.targetID = target.ID
		return w.chaseCommands(n)
	}
	if w.aiRNG.Intn(100) < n.Archetype.WanderChance {
		dx := w.aiRNG.Intn(3) - 1
		dy := w.aiRNG.Intn(3) - 1
		if (dx != 0 || dy != 0) && w.occupancy.IsFree(n.X+dx, n.Y+dy) {
			return []Command{{
				ActorID: n.ID,
				Type:    CommandMove,
				Move:    &MoveCommand{ToX: n.X + dx, ToY: n.Y + dy},
			}}
		}
	}
	return nil
}

func (w *World) chaseCommands(n *npcState) []Command {
	target, ok := w.players[n.targetID]
	if !ok || !target.Alive ||
		chebyshev(n.SpawnX, n.SpawnY, n.X, n.Y) > n.leashRange {
		n.targetID = ""
		n.aiState = aiReturning
		return nil
	}

	dx := target.X - n.X
	dy := target.Y - n.Y
	weapon := n.weapon()
	if chebyshev(n.X, n.Y, target.X, target.Y) <= weapon.Range && (dx == 0 || dy == 0 || abs(dx) == abs(dy)) {
		return []Command{
			{
				ActorID: n.ID,
				Type:    CommandFace,
				Face:    &FaceCommand{Facing: facingFromDelta(sign(dx), sign(dy), n.Facing)},
			},
			{ActorID: n.ID, Type: CommandAttack},
		}
	}
	return w.moveToward(n, target.X, target.Y)
}

func (w *World) returnCommands(n *npcState) []Command {
	if n.X == n.SpawnX && n.Y == n.SpawnY {
		n.aiState = aiIdle
		return nil
	}
	return w.moveToward(n, n.SpawnX, n.SpawnY)
}

// moveToward emits one step toward the target tile. When the preferred step
// is blocked or held, a perpendicular sidestep is tried instead so the NPC
// keeps flowing around obstacles rather than wedging against them. Steps
// directly away from the target are never considered.
func (w *World) moveToward(n *npcState, tx, ty int) []Command {
	sx := sign(tx - n.X)
	sy := sign(ty - n.Y)

	var candidates [][2]int
	switch {
	case sx != 0 && sy != 0:
		candidates = [][2]int{{sx, sy}, {sx, 0}, {0, sy}}
	case sx != 0:
		candidates = [][2]int{{sx, 0}, {sx, 1}, {sx, -1}, {0, 1}, {0, -1}}
	case sy != 0:
		candidates = [][2]int{{0, sy}, {1, sy}, {-1, sy}, {1, 0}, {-1, 0}}
	default:
		return nil
	}

	for _, step := range candidates {
		x, y := n.X+step[0], n.Y+step[1]
		if w.occupancy.IsFree(x, y) {
			return []Command{{
				ActorID: n.ID,
				Type:    CommandMove,
				Move:    &MoveCommand{ToX: x, ToY: y},
			}}
		}
	}
	return nil
}

func (w *World) nearestPlayerWithin(n *npcState, radius int) *playerState {
	var best *playerState
	bestDist := radius + 1
	for _, id := range w.sortedPlayerIDs() {
		p := w.players[id]
		if !p.Alive {
			continue
		}
		d := chebyshev(n.X, n.Y, p.X, p.Y)
		if d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

func chebyshev(x0, y0, x1, y1 int) int {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	if dx > dy {
		return dx
	}
	return dy
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
