package menuopts

import (
	"fmt"
	"strings"
	"time"
)

// Evaluate runs expr once against ctx with the configured evaluator.
func (s *Service) Evaluate(ctx RuleContext, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("menuopts: expression must not be empty")
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx = s.ruleContext(ctx)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(evaluatorEngineName(evaluator), expr, ctx.playerLabel(), evalErr)
	s.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   evaluatorEngineName(evaluator),
		Expr:     expr,
		Player:   ctx.playerLabel(),
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

// Rule compiles expr into a Predicate for Register and Unregister. The
// expression sees player.id, player.name, player.metadata, now, and the
// configured functions. A rule that fails or yields a non-boolean admits
// nobody; the failure is logged.
func (s *Service) Rule(expr string, args map[string]any) (Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("menuopts: expression must not be empty")
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	compiled, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(engine, expr, "", err)
	}
	args = copyMetadata(args)
	return func(player Player) bool {
		ctx := s.ruleContext(RuleContext{Player: player, Args: args})
		start := time.Now()
		value, evalErr := compiled.Evaluate(ctx)
		if evalErr == nil {
			if _, ok := value.(bool); !ok {
				evalErr = fmt.Errorf("rule returned %T, want bool", value)
			}
		}
		evalErr = wrapEvaluationError(engine, expr, ctx.playerLabel(), evalErr)
		s.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expr,
			Player:   ctx.playerLabel(),
			Duration: time.Since(start),
			Err:      evalErr,
		})
		if evalErr != nil {
			return false
		}
		return value.(bool)
	}, nil
}

func (s *Service) ruleContext(ctx RuleContext) RuleContext {
	if ctx.Now == nil {
		now := s.cfg.now()
		ctx.Now = &now
	}
	return ctx.withDefaults()
}

func (s *Service) resolveEvaluator() (Evaluator, error) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(s.cfg.programCache))
	}
	if s.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(s.cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}

func (s *Service) evaluatorLogger() EvaluatorLogger {
	if s.cfg.evalLogger != nil {
		return s.cfg.evalLogger
	}
	return noopEvaluatorLogger{}
}

// NewEvaluator builds the evaluator named by engine ("expr", "cel" or "js").
func NewEvaluator(engine string, cache ProgramCache, functions *FunctionRegistry) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "expr":
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(functions)), nil
	case "cel":
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(functions)), nil
	case "js":
		if !JSEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: js engine requires the js_eval build tag", ErrNoEvaluator)
		}
		return NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(functions)), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrNoEvaluator, engine)
	}
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if name := fmt.Sprintf("%T", e); name == "*menuopts.jsEvaluator" {
			return "js"
		}
		return "custom"
	}
}
