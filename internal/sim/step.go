package sim

import "time"

// Step advances the simulation by exactly one tick. The counter increments
// first so startedTick stamps and spawn modulo checks observe the tick being
// produced. Order within the step: staged commands, then movement, then
// spawn scheduling.
func (w *World) Step(now time.Time, commands []Command) {
	w.tick++
	w.Apply(commands)
	w.advanceMovement()
	w.runSpawns()
}

// advanceMovement resolves in-flight movement for every player. A move rests
// for one full tick after it was issued, then walks one tile per tick,
// clearing all horizontal displacement before any vertical displacement.
func (w *World) advanceMovement() {
	for _, player := range w.players {
		if player.State.Type != StateMoving || player.State.To == nil {
			continue
		}
		if w.tick-player.State.StartedTick < 1 {
			continue
		}
		next, moved := stepToward(player.Position, *player.State.To)
		if !moved {
			player.State = IdleState()
			continue
		}
		player.Position = next
		if player.Position == *player.State.To {
			player.State = IdleState()
		}
	}
}

// runSpawns evaluates every spawn config in declared order. Interval spawns
// gate on MinTicks alone; MaxTicks is carried in config but not consulted.
func (w *World) runSpawns() {
	for _, spawn := range w.mapConfig.Spawns {
		if _, exists := w.npcs[spawn.ID]; exists {
			continue
		}
		switch spawn.Policy {
		case SpawnFixed:
			w.spawnNPC(spawn)
		case SpawnInterval:
			if spawn.MinTicks > 0 && w.tick%spawn.MinTicks == 0 {
				w.spawnNPC(spawn)
			}
		}
	}
}
