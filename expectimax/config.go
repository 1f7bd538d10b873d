package expectimax

import (
	"github.com/domino14/expecto/config"
	"github.com/domino14/expecto/equity"
)

// NewSolverFromConfig creates a solver with the standard evaluator and the
// search options found in cfg. A cache policy of "off" disables the
// transposition table.
func NewSolverFromConfig(cfg *config.Config) (*Solver, error) {
	s := &Solver{}
	if err := s.Init(equity.NewStaticEvaluator()); err != nil {
		return nil, err
	}
	s.SetTimeBudget(cfg.GetDuration(config.ConfigSearchMinTime), cfg.GetDuration(config.ConfigSearchMaxTime))
	s.SetMaxDepth(cfg.GetInt(config.ConfigSearchMaxDepth))

	policyName := cfg.GetString(config.ConfigCachePolicy)
	if policyName == "off" {
		s.SetTranspositionTableOptim(false)
		return s, nil
	}
	policy, err := ParseCachePolicy(policyName)
	if err != nil {
		return nil, err
	}
	err = s.SetCachePolicy(policy, cfg.GetInt(config.ConfigCacheCapacity),
		cfg.GetFloat64(config.ConfigCacheMemoryFraction))
	if err != nil {
		return nil, err
	}
	return s, nil
}
