package game

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Faltri/imposter-word-game/category"
	"github.com/Faltri/imposter-word-game/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxPlayers    = 16
	MinPlayers    = 3
	MaxNameLength = 24

	customCategoryID = "custom"
)

// Session is the round state machine of one game. It is not safe for concurrent use: a Room
// owns it and serializes every call.
type Session struct {
	phase   domain.Phase
	epoch   uint64
	players []domain.Player
	rules   domain.RoundConfig
	config  *domain.GameConfig

	revealIndex  int
	clueIndex    int
	currentRound int
	clues        []domain.Clue
	clueDeadline time.Time

	votingOpen bool
	voterIndex int
	votes      map[string]domain.Vote

	mode     domain.ResolutionMode
	outcome  domain.Outcome
	caughtID string
	guess    string
	tally    map[string]int
	deltas   map[string]int
	scored   bool

	rerollUsed   bool
	fairPlayOK   bool
	generating   bool
	theme        string
	pendingRules domain.RoundConfig
	notice       string

	store *category.Store
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

func NewSession(store *category.Store, rng *rand.Rand) *Session {
	return &Session{
		phase:      domain.PhaseLobby,
		epoch:      1,
		rules:      domain.DefaultRules(),
		fairPlayOK: true,
		store:      store,
		rng:        rng,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *Session) Phase() domain.Phase { return s.phase }

// Epoch increases by one on every accepted mutation.
func (s *Session) Epoch() uint64 { return s.epoch }

func (s *Session) Language() domain.Language {
	if s.config != nil {
		return s.config.Language
	}
	return s.rules.WithDefaults().Language
}

func (s *Session) Players() []domain.Player { return slices.Clone(s.players) }

func (s *Session) commit() { s.epoch++ }

// Apply validates and performs one human action. A rejected action leaves the session
// untouched.
func (s *Session) Apply(a domain.Action) error {
	if a.Epoch != 0 && a.Epoch != s.epoch {
		return fmt.Errorf("%w: issued at epoch %d, session is at %d", domain.ErrStaleAction, a.Epoch, s.epoch)
	}
	if a.Kind.TurnBound() && a.Epoch == 0 && a.PlayerID == "" {
		return fmt.Errorf("%w: %s needs an epoch or a player id", domain.ErrStaleAction, a.Kind)
	}

	switch a.Kind {
	case domain.ActionAddPlayer:
		_, err := s.AddPlayer(a.Name, a.IsAI)
		return err
	case domain.ActionRemovePlayer:
		return s.RemovePlayer(a.PlayerID)
	case domain.ActionOpenRules:
		return s.OpenRules()
	case domain.ActionBackToLobby:
		return s.BackToLobby()
	case domain.ActionConfirmRules:
		return s.ConfirmRules(s.rulesFrom(a))
	case domain.ActionGenerateCategory:
		return s.BeginCategoryGeneration(a.Text, s.rulesFrom(a))
	case domain.ActionShowRole:
		return s.ShowRole(a.PlayerID)
	case domain.ActionNextReveal:
		return s.NextReveal(a.PlayerID)
	case domain.ActionReroll:
		return s.Reroll()
	case domain.ActionSubmitClue:
		return s.SubmitClue(a.PlayerID, a.Text)
	case domain.ActionStartVoting:
		return s.StartVoting()
	case domain.ActionCastVote:
		return s.CastVote(a.PlayerID, a.TargetID, a.Doubled)
	case domain.ActionGuess:
		return s.Guess(a.PlayerID, a.Text)
	case domain.ActionPlayAgain:
		return s.PlayAgain()
	case domain.ActionExit:
		return s.Exit()
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownAction, a.Kind)
}

func (s *Session) rulesFrom(a domain.Action) domain.RoundConfig {
	if a.Rules != nil {
		return *a.Rules
	}
	return s.rules
}

func (s *Session) requirePhase(phases ...domain.Phase) error {
	if slices.Contains(phases, s.phase) {
		return nil
	}
	return fmt.Errorf("%w: session is in %s", domain.ErrWrongPhase, s.phase)
}

// Lobby

func (s *Session) AddPlayer(name string, isAI bool) (domain.Player, error) {
	if err := s.requirePhase(domain.PhaseLobby); err != nil {
		return domain.Player{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return domain.Player{}, domain.ErrNameTooLong
	}
	if len(s.players) >= MaxPlayers {
		return domain.Player{}, domain.ErrTooManyPlayers
	}

	p := domain.Player{ID: s.newID(), Name: name, IsAI: isAI, Role: domain.RoleUnassigned}
	s.players = append(s.players, p)
	s.commit()
	return p, nil
}

func (s *Session) RemovePlayer(id string) error {
	if err := s.requirePhase(domain.PhaseLobby); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrUnknownPlayer
	}
	s.players = slices.Delete(s.players, i, i+1)
	s.commit()
	return nil
}

func (s *Session) OpenRules() error {
	if err := s.requirePhase(domain.PhaseLobby); err != nil {
		return err
	}
	if len(s.players) < MinPlayers {
		return domain.ErrTooFewPlayers
	}
	s.phase = domain.PhaseRules
	s.commit()
	return nil
}

// Rules

func (s *Session) BackToLobby() error {
	if err := s.requirePhase(domain.PhaseRules); err != nil {
		return err
	}
	if s.generating {
		return domain.ErrAlreadyGenerating
	}
	s.phase = domain.PhaseLobby
	s.commit()
	return nil
}

func (s *Session) ConfirmRules(rules domain.RoundConfig) error {
	if err := s.requirePhase(domain.PhaseRules); err != nil {
		return err
	}
	if s.generating {
		return domain.ErrAlreadyGenerating
	}
	if err := rules.Validate(); err != nil {
		return err
	}
	if err := s.startRound(rules.WithDefaults()); err != nil {
		return err
	}
	s.rerollUsed = false
	s.commit()
	return nil
}

// BeginCategoryGeneration records the theme and rules and marks the session as waiting for
// CompleteCategoryGeneration. The owner is expected to run the AI call.
func (s *Session) BeginCategoryGeneration(theme string, rules domain.RoundConfig) error {
	if err := s.requirePhase(domain.PhaseRules); err != nil {
		return err
	}
	if s.generating {
		return domain.ErrAlreadyGenerating
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return domain.ErrEmptyTheme
	}
	if err := rules.Validate(); err != nil {
		return err
	}

	s.generating = true
	s.theme = theme
	s.pendingRules = rules.WithDefaults()
	s.commit()
	return nil
}

// CompleteCategoryGeneration starts the round with the generated category, or with the
// configured categories and the ai-category-failed notice when genErr is set or the category
// is unusable.
func (s *Session) CompleteCategoryGeneration(generated domain.Category, genErr error) error {
	if err := s.requirePhase(domain.PhaseRules); err != nil {
		return err
	}
	if !s.generating {
		return fmt.Errorf("%w: no category generation in progress", domain.ErrWrongPhase)
	}

	rules := s.pendingRules
	if genErr == nil {
		normalized, err := domain.NormalizeCategory(generated)
		if err == nil {
			normalized.ID = customCategoryID
			if normalized.Language == "" {
				normalized.Language = rules.Language
			}
			rules.CustomCategory = &normalized
			rules.SelectedCategories = nil
		}
		genErr = err
	}

	s.generating = false
	s.theme = ""
	if err := s.startRound(rules); err != nil {
		s.commit()
		return err
	}
	s.rerollUsed = false
	if genErr != nil {
		log.Warn().Err(genErr).Msg("ai category rejected, using configured categories")
		s.notice = "ai-category-failed"
	}
	s.commit()
	return nil
}

func (s *Session) categoryPool(rules domain.RoundConfig) ([]domain.Category, error) {
	if rules.CustomCategory != nil {
		c, err := domain.NormalizeCategory(*rules.CustomCategory)
		if err != nil {
			return nil, err
		}
		if c.ID == "" {
			c.ID = customCategoryID
		}
		return []domain.Category{c}, nil
	}
	if s.store == nil {
		return nil, domain.ErrNoCategories
	}
	pool := s.store.Resolve(rules.SelectedCategories, rules.Language, rules.LocalizedCategories)
	if len(pool) == 0 {
		return nil, domain.ErrNoCategories
	}
	return pool, nil
}

// startRound freezes the rules, draws the category and secret word, deals roles and resets
// all per-round state. Nothing is mutated on error.
func (s *Session) startRound(rules domain.RoundConfig) error {
	pool, err := s.categoryPool(rules)
	if err != nil {
		return err
	}
	cat := pool[s.rng.Intn(len(pool))]
	secret := cat.Words[s.rng.Intn(len(cat.Words))]

	ordered, imposterIDs, fair := AssignRoles(s.players, rules, s.rng)
	if !fair {
		log.Warn().Int("players", len(ordered)).Msg("fair play requested but no civilian could take the first turn")
	}

	s.clearRound()
	s.rules = rules
	s.players = ordered
	s.fairPlayOK = fair
	s.config = &domain.GameConfig{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Words:        slices.Clone(cat.Words),
		SecretWord:   secret,
		ImposterIDs:  imposterIDs,
		Language:     rules.Language,
		AIDifficulty: rules.AIDifficulty,
	}
	s.phase = domain.PhaseRevealTransition
	return nil
}

// clearRound drops everything derived from the running round. Players, scores and rules stay.
func (s *Session) clearRound() {
	s.config = nil
	s.revealIndex = 0
	s.clueIndex = 0
	s.currentRound = 0
	s.clues = nil
	s.clueDeadline = time.Time{}
	s.votingOpen = false
	s.voterIndex = 0
	s.votes = nil
	s.mode = domain.ResolutionNone
	s.outcome = domain.OutcomeNone
	s.caughtID = ""
	s.guess = ""
	s.tally = nil
	s.deltas = nil
	s.scored = false
	s.fairPlayOK = true
	s.notice = ""
}

// Reveal

func (s *Session) revealer() domain.Player { return s.players[s.revealIndex] }

func (s *Session) ShowRole(playerID string) error {
	if err := s.requirePhase(domain.PhaseRevealTransition); err != nil {
		return err
	}
	if err := checkHumanTurn(s.revealer(), playerID); err != nil {
		return err
	}
	s.phase = domain.PhaseReveal
	s.commit()
	return nil
}

func (s *Session) NextReveal(playerID string) error {
	if err := s.requirePhase(domain.PhaseReveal); err != nil {
		return err
	}
	if err := checkHumanTurn(s.revealer(), playerID); err != nil {
		return err
	}
	s.advanceReveal()
	s.commit()
	return nil
}

func (s *Session) advanceAIReveal(playerID string) error {
	if err := s.requirePhase(domain.PhaseRevealTransition, domain.PhaseReveal); err != nil {
		return err
	}
	if err := checkAITurn(s.revealer(), playerID); err != nil {
		return err
	}
	s.advanceReveal()
	s.commit()
	return nil
}

func (s *Session) advanceReveal() {
	s.revealIndex++
	if s.revealIndex < len(s.players) {
		s.phase = domain.PhaseRevealTransition
		return
	}
	s.phase = domain.PhaseClue
	s.clueIndex = 0
	s.currentRound = 1
	if s.rules.TimerEnabled {
		s.clueDeadline = s.now().Add(time.Duration(s.rules.TimerDuration) * time.Second)
	}
}

// Reroll deals a fresh category, word and turn order with the same rules. Allowed once per
// round, before the first player has moved on from their role.
func (s *Session) Reroll() error {
	if err := s.requirePhase(domain.PhaseRevealTransition, domain.PhaseReveal); err != nil {
		return err
	}
	if s.revealIndex != 0 || s.rerollUsed {
		return domain.ErrRerollUnavailable
	}
	if err := s.startRound(s.rules); err != nil {
		return err
	}
	s.rerollUsed = true
	s.commit()
	return nil
}

// Clues

func (s *Session) clueGiver() domain.Player { return s.players[s.clueIndex] }

func (s *Session) SubmitClue(playerID, text string) error {
	if err := s.requirePhase(domain.PhaseClue); err != nil {
		return err
	}
	giver := s.clueGiver()
	if err := checkHumanTurn(giver, playerID); err != nil {
		return err
	}
	text, err := ValidateClue(text)
	if err != nil {
		return err
	}
	s.appendClue(giver, text)
	s.commit()
	return nil
}

func (s *Session) submitAIClue(playerID, text string) error {
	if err := s.requirePhase(domain.PhaseClue); err != nil {
		return err
	}
	giver := s.clueGiver()
	if err := checkAITurn(giver, playerID); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyClue
	}
	s.appendClue(giver, text)
	s.commit()
	return nil
}

func (s *Session) appendClue(giver domain.Player, text string) {
	s.clues = append(s.clues, domain.Clue{PlayerID: giver.ID, PlayerName: giver.Name, Text: text})
	s.clueIndex++
	if s.clueIndex < len(s.players) {
		return
	}
	if s.currentRound < s.rules.ClueRounds {
		s.currentRound++
		s.clueIndex = 0
		return
	}
	s.enterVoting()
}

// ExpireTimer ends the clue phase early.
func (s *Session) ExpireTimer() error {
	if err := s.requirePhase(domain.PhaseClue); err != nil {
		return err
	}
	s.enterVoting()
	s.commit()
	return nil
}

// Tick expires the clue countdown once now has reached it. It reports whether the session
// changed.
func (s *Session) Tick(now time.Time) bool {
	if s.phase != domain.PhaseClue || s.clueDeadline.IsZero() || now.Before(s.clueDeadline) {
		return false
	}
	return s.ExpireTimer() == nil
}

// Voting

func (s *Session) enterVoting() {
	s.phase = domain.PhaseVoting
	s.clueDeadline = time.Time{}
	s.votingOpen = false
	s.voterIndex = 0
	s.votes = make(map[string]domain.Vote, len(s.players))
}

// StartVoting ends the discussion and opens the ballot.
func (s *Session) StartVoting() error {
	if err := s.requirePhase(domain.PhaseVoting); err != nil {
		return err
	}
	if s.votingOpen {
		return fmt.Errorf("%w: ballot already open", domain.ErrWrongPhase)
	}
	s.votingOpen = true
	s.commit()
	return nil
}

func (s *Session) voter() domain.Player { return s.players[s.voterIndex] }

func (s *Session) requireOpenBallot() error {
	if err := s.requirePhase(domain.PhaseVoting); err != nil {
		return err
	}
	if !s.votingOpen {
		return fmt.Errorf("%w: ballot not open", domain.ErrWrongPhase)
	}
	return nil
}

func (s *Session) CastVote(voterID, targetID string, doubled bool) error {
	if err := s.requireOpenBallot(); err != nil {
		return err
	}
	voter := s.voter()
	if err := checkHumanTurn(voter, voterID); err != nil {
		return err
	}
	if err := s.recordVote(voter, targetID, doubled); err != nil {
		return err
	}
	s.commit()
	return nil
}

func (s *Session) castAIVote(voterID string) error {
	if err := s.requireOpenBallot(); err != nil {
		return err
	}
	voter := s.voter()
	if err := checkAITurn(voter, voterID); err != nil {
		return err
	}
	others := make([]string, 0, len(s.players)-1)
	for _, p := range s.players {
		if p.ID != voter.ID {
			others = append(others, p.ID)
		}
	}
	target := others[s.rng.Intn(len(others))]
	doubled := s.rules.PointMultiplier && s.rng.Float64() < 0.3
	if err := s.recordVote(voter, target, doubled); err != nil {
		return err
	}
	s.commit()
	return nil
}

// openBallotForAI ends the discussion when nobody is at the table to do it.
func (s *Session) openBallotForAI() error {
	if !s.allAI() {
		return domain.ErrNotYourTurn
	}
	return s.StartVoting()
}

func (s *Session) recordVote(voter domain.Player, targetID string, doubled bool) error {
	if targetID == "" || targetID == voter.ID {
		return fmt.Errorf("%w: cannot vote for yourself", domain.ErrInvalidVote)
	}
	if s.indexOf(targetID) < 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidVote, domain.ErrUnknownPlayer)
	}

	s.votes[voter.ID] = domain.Vote{TargetID: targetID, Doubled: doubled && s.rules.PointMultiplier}
	s.voterIndex++
	if s.voterIndex >= len(s.players) {
		s.resolveVotes()
	}
	return nil
}

func (s *Session) resolveVotes() {
	target, counts := Plurality(s.votes, s.players)
	s.tally = counts
	if target != "" && s.config.IsImposter(target) {
		s.phase = domain.PhaseResolution
		s.mode = domain.ResolutionGuess
		s.caughtID = target
		return
	}
	s.finalize(domain.OutcomeImposterWin)
}

// Resolution

func (s *Session) caught() domain.Player { return s.players[s.indexOf(s.caughtID)] }

func (s *Session) requireGuess() error {
	if err := s.requirePhase(domain.PhaseResolution); err != nil {
		return err
	}
	if s.mode != domain.ResolutionGuess || s.outcome != domain.OutcomeNone {
		return fmt.Errorf("%w: no guess pending", domain.ErrWrongPhase)
	}
	return nil
}

// Guess is the caught imposter naming the secret word from the category list.
func (s *Session) Guess(playerID, word string) error {
	if err := s.requireGuess(); err != nil {
		return err
	}
	if err := checkHumanTurn(s.caught(), playerID); err != nil {
		return err
	}
	w, ok := canonicalWord(word, s.config.Words)
	if !ok {
		return domain.ErrInvalidGuess
	}
	s.resolveGuess(w)
	s.commit()
	return nil
}

// submitAIGuess snaps the AI's answer onto the word list, or guesses at random when it
// can't.
func (s *Session) submitAIGuess(playerID, word string) error {
	if err := s.requireGuess(); err != nil {
		return err
	}
	if err := checkAITurn(s.caught(), playerID); err != nil {
		return err
	}
	w, ok := snapGuess(word, s.config.Words)
	if !ok {
		w = s.config.Words[s.rng.Intn(len(s.config.Words))]
	}
	s.resolveGuess(w)
	s.commit()
	return nil
}

func (s *Session) resolveGuess(word string) {
	s.guess = word
	if word == s.config.SecretWord {
		s.finalize(domain.OutcomeImposterWin)
		return
	}
	s.finalize(domain.OutcomeCivilianWin)
}

func (s *Session) finalize(outcome domain.Outcome) {
	s.phase = domain.PhaseResolution
	s.mode = domain.ResolutionReveal
	s.outcome = outcome
	if s.scored {
		return
	}
	s.players, s.deltas = Score(s.players, s.config.ImposterIDs, outcome, s.votes)
	s.scored = true
}

func (s *Session) PlayAgain() error {
	if err := s.requirePhase(domain.PhaseResolution); err != nil {
		return err
	}
	if s.outcome == domain.OutcomeNone {
		return fmt.Errorf("%w: round not finished", domain.ErrWrongPhase)
	}
	s.backToRules()
	s.commit()
	return nil
}

// Exit abandons the running round. Scores already awarded are kept.
func (s *Session) Exit() error {
	if !s.phase.InRound() {
		return fmt.Errorf("%w: no round in progress", domain.ErrWrongPhase)
	}
	s.backToRules()
	s.commit()
	return nil
}

func (s *Session) backToRules() {
	s.clearRound()
	s.rerollUsed = false
	for i := range s.players {
		s.players[i].Role = domain.RoleUnassigned
	}
	s.phase = domain.PhaseRules
}

// helpers

func (s *Session) indexOf(id string) int {
	return slices.IndexFunc(s.players, func(p domain.Player) bool { return p.ID == id })
}

func (s *Session) allAI() bool {
	for _, p := range s.players {
		if !p.IsAI {
			return false
		}
	}
	return len(s.players) > 0
}

// checkHumanTurn rejects actions on an AI player's turn, and actions naming someone other
// than the current player. An empty playerID means "whoever holds the device".
func checkHumanTurn(current domain.Player, playerID string) error {
	if current.IsAI {
		return fmt.Errorf("%w: %s is played by the AI", domain.ErrNotYourTurn, current.Name)
	}
	if playerID != "" && playerID != current.ID {
		return fmt.Errorf("%w: waiting for %s", domain.ErrNotYourTurn, current.Name)
	}
	return nil
}

func checkAITurn(current domain.Player, playerID string) error {
	if !current.IsAI || current.ID != playerID {
		return domain.ErrNotYourTurn
	}
	return nil
}
