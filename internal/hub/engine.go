package hub

import (
	"errors"
	"fmt"
	"time"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/sim"
)

var errMissingPayload = errors.New("command payload missing")

// engine translates loop commands into game calls.
type engine struct {
	game *game.Game
}

func (e engine) Apply(cmd sim.Command, now time.Time) error {
	switch cmd.Type {
	case sim.CommandConnect:
		e.game.Greet(cmd.ActorID, now)
	case sim.CommandJoin:
		if cmd.Join == nil {
			return errMissingPayload
		}
		e.game.Join(cmd.ActorID, cmd.Join.Team, cmd.Join.Name, now)
	case sim.CommandStart:
		e.game.Start(now)
	case sim.CommandMove:
		if cmd.Move == nil {
			return errMissingPayload
		}
		e.game.SetVelocity(cmd.ActorID, cmd.Move.VX, cmd.Move.VY)
	case sim.CommandUseWeapon:
		if cmd.Weapon == nil {
			return errMissingPayload
		}
		e.game.UseWeapon(cmd.ActorID, game.WeaponKind(cmd.Weapon.Weapon), cmd.Weapon.TargetX, cmd.Weapon.TargetY, now)
	case sim.CommandChat:
		if cmd.Chat == nil {
			return errMissingPayload
		}
		e.game.Chat(cmd.ActorID, cmd.Chat.Message, now)
	case sim.CommandDisconnect:
		e.game.Leave(cmd.ActorID)
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
	return nil
}

func (e engine) Step(now time.Time) bool {
	return e.game.Step(now)
}
