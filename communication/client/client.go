package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"outbreak/communication"
	"outbreak/game"
	"outbreak/strategy"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 10 * time.Second

// Client is a strategy played by a remote agent. The agent keeps its own
// context, so the context passed to the decision calls is unused. Failed
// calls are logged and answered with an empty decision.
type Client struct {
	serverURL string
	http      *http.Client
}

var _ strategy.Strategy = (*Client)(nil)

func NewClient(serverURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{serverURL: serverURL, http: &http.Client{Timeout: timeout}}
}

func (c *Client) DecideCharacterClasses(possible []game.CharacterClassType, numToPick, maxPerClass int) map[game.CharacterClassType]int {
	req := communication.ClassesRequest{Possible: possible, NumToPick: numToPick, MaxPerClass: maxPerClass}
	var classes map[game.CharacterClassType]int
	if err := c.post(communication.ClassesRoute, req, &classes); err != nil {
		log.Warn().Err(err).Msg("remote class selection failed")
		return nil
	}
	return classes
}

func (c *Client) DecideMoves(_ *strategy.Context, possible map[string][]game.MoveAction, gs *game.GameState) []game.MoveAction {
	return decide(c, communication.MovesRoute, possible, gs)
}

func (c *Client) DecideAttacks(_ *strategy.Context, possible map[string][]game.AttackAction, gs *game.GameState) []game.AttackAction {
	return decide(c, communication.AttacksRoute, possible, gs)
}

func (c *Client) DecideAbilities(_ *strategy.Context, possible map[string][]game.AbilityAction, gs *game.GameState) []game.AbilityAction {
	return decide(c, communication.AbilitiesRoute, possible, gs)
}

func decide[T any](c *Client, route string, possible map[string][]T, gs *game.GameState) []T {
	state, err := json.Marshal(gs)
	if err != nil {
		log.Warn().Err(err).Msgf("cannot encode turn %d", gs.Turn)
		return nil
	}
	var actions []T
	req := communication.DecisionRequest[T]{Possible: possible, GameState: state}
	if err := c.post(route, req, &actions); err != nil {
		log.Warn().Err(err).Msgf("remote decision on %s failed for turn %d", route, gs.Turn)
		return nil
	}
	return actions
}

func (c *Client) post(route string, req, resp any) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	r, err := c.http.Post(c.serverURL+route, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", route, r.Status)
	}
	return json.NewDecoder(r.Body).Decode(resp)
}
