package calc

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/robinvdvleuten/ledgercalc/ledger"
)

// Evaluator reduces token lists with an explicit operand stack. Tokens are
// consumed left to right: value tokens are pushed, operators pop their
// operands and push the result.
type Evaluator struct {
	env       *Environment
	reporting *ledger.Commodity
	valuer    ledger.Valuer
	logger    *slog.Logger

	stack  []Token
	cursor int
	length int
}

// NewEvaluator creates an evaluator storing variables in env. Conversions to
// the reporting commodity use valuer.
func NewEvaluator(env *Environment, reporting *ledger.Commodity, valuer ledger.Valuer, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{
		env:       env,
		reporting: reporting,
		valuer:    valuer,
		logger:    logger,
	}
}

// Eval evaluates the tokens of one command line. The stack starts empty on
// every call; variables persist in the environment. Errors are *Error values
// carrying the column of the offending token but no file or line.
func (e *Evaluator) Eval(tokens []Token) error {
	e.stack = e.stack[:0]
	e.length = len(tokens)

	for i, tok := range tokens {
		e.cursor = i

		var err error
		switch tok.Type {
		case VARIABLE:
			e.pushVariable(tok)
		case OPERATOR:
			err = e.applyBinary(tok)
		case SINGLEOP:
			err = e.applySingle(tok)
		case ASSIGN:
			err = e.applyAssign(tok)
		case COMMENT:
		default:
			e.stack = append(e.stack, tok)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Stack returns a copy of the operand stack left by the last Eval.
func (e *Evaluator) Stack() []Token {
	out := make([]Token, len(e.stack))
	copy(out, e.stack)
	return out
}

func (e *Evaluator) pushVariable(tok Token) {
	if value, ok := e.env.Get(variableName(tok.Text)); ok {
		tok.Value = &value
	}
	e.stack = append(e.stack, tok)
}

func (e *Evaluator) pop() Token {
	tok := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return tok
}

// operand pops a token that must be a resolved value.
func (e *Evaluator) operand(op Token) (ledger.Balance, error) {
	tok := e.pop()
	if !tok.IsValue() {
		return ledger.Balance{}, e.fail(InvalidOperandType, op, "operand %s of %q is not a value", tok.Type, op.Text)
	}
	if tok.Value == nil {
		return ledger.Balance{}, e.fail(UnresolvedVariable, op, "variable %s is not assigned", tok.Text)
	}
	return *tok.Value, nil
}

func (e *Evaluator) applyBinary(op Token) error {
	if len(e.stack) < 2 {
		return e.fail(InsufficientOperands, op, "%q needs 2 operands, have %d", op.Text, len(e.stack))
	}

	right, err := e.operand(op)
	if err != nil {
		return err
	}
	left, err := e.operand(op)
	if err != nil {
		return err
	}

	var result ledger.Balance
	switch op.Text {
	case "+":
		result = left.Add(right)
	case "-":
		result = left.Sub(right)
	case "*":
		factor, err := e.scalar(op, right)
		if err != nil {
			return err
		}
		result = left.Mul(factor)
	case "/":
		divisor, err := e.scalar(op, right)
		if err != nil {
			return err
		}
		result, err = left.Div(divisor)
		if errors.Is(err, ledger.ErrDivisionByZero) {
			return e.wrap(DivisionByZero, op, err)
		} else if err != nil {
			return err
		}
	case "max", "min":
		cmp, err := right.Compare(left)
		if err != nil {
			return e.wrap(IncommensurableCommodity, op, err)
		}
		result = left
		if (op.Text == "max" && cmp > 0) || (op.Text == "min" && cmp < 0) {
			result = right
		}
	case "subz":
		// The difference is clamped in the reporting commodity, so mixed
		// balances are valued first.
		diff := left.Sub(right)
		amount, ok := e.valuer.ValueIn(diff, e.reporting)
		if !ok {
			return e.fail(IncommensurableCommodity, op, "cannot value %s in %q", diff, e.reporting.Symbol())
		}
		if amount.Sign() > 0 {
			result = ledger.NewBalance(amount)
		}
	default:
		return e.fail(UnknownOperator, op, "unknown operator %q", op.Text)
	}

	e.push(op, result)
	return nil
}

func (e *Evaluator) applySingle(op Token) error {
	if len(e.stack) < 1 {
		return e.fail(InsufficientOperands, op, "%q needs 1 operand, have 0", op.Text)
	}

	value, err := e.operand(op)
	if err != nil {
		return err
	}

	var result ledger.Balance
	switch op.Text {
	case "abs":
		result = value.Abs()
	case "neg":
		result = value.Neg()
	case "usd":
		amount, ok := e.valuer.ValueIn(value, e.reporting)
		if !ok {
			return e.fail(IncommensurableCommodity, op, "cannot value %s in %q", value, e.reporting.Symbol())
		}
		result = ledger.NewBalance(amount)
	default:
		return e.fail(UnknownOperator, op, "unknown operator %q", op.Text)
	}

	e.push(op, result)
	return nil
}

func (e *Evaluator) applyAssign(op Token) error {
	if len(e.stack) < 2 {
		return e.fail(InsufficientOperands, op, "assignment needs 2 operands, have %d", len(e.stack))
	}

	value, err := e.operand(op)
	if err != nil {
		return err
	}
	target := e.pop()
	if target.Type != VARIABLE {
		return e.fail(InvalidAssignmentTarget, op, "cannot assign to %s %q", target.Type, target.Text)
	}

	name := variableName(target.Text)
	e.env.Set(name, value)
	e.logger.Debug("assigned variable", slog.String("name", name), slog.String("value", value.String()))

	e.stack = append(e.stack, valueToken(VARIABLE, value, target.Text, target.Column))
	return nil
}

// scalar coerces the right operand of * and / to a single amount. A balance
// without value in the reporting commodity counts as zero.
func (e *Evaluator) scalar(op Token, b ledger.Balance) (ledger.Amount, error) {
	if amounts := b.Amounts(); len(amounts) == 1 {
		return amounts[0], nil
	}
	if _, ok := e.valuer.ValueIn(b, e.reporting); !ok {
		return ledger.Amount{}, nil
	}
	amount, err := b.ToAmount()
	if err != nil {
		return ledger.Amount{}, e.wrap(IncommensurableCommodity, op, err)
	}
	return amount, nil
}

func (e *Evaluator) push(op Token, result ledger.Balance) {
	e.stack = append(e.stack, valueToken(NUMBER, result, result.String(), op.Column))
}

func (e *Evaluator) fail(kind ErrorKind, tok Token, format string, args ...any) *Error {
	err := newError(kind, tok, format, args...)
	err.Cursor = e.cursor
	err.Length = e.length
	return err
}

func (e *Evaluator) wrap(kind ErrorKind, tok Token, cause error) *Error {
	err := e.fail(kind, tok, "%s", cause.Error())
	err.Err = cause
	return err
}

func variableName(text string) string {
	return strings.TrimPrefix(text, "$")
}
