package host

import (
	"context"
	"fmt"
	"io"
	"strings"

	"collective_dao/sdk"

	"gopkg.in/yaml.v3"
)

// Script is a list of steps replayed against a runtime, used by the CLI and
// by replayable test fixtures.
//
//	steps:
//	  - mint: {to: hive:alice, amount: 100, asset: hive}
//	  - call: {contract: dao, action: deposit, sender: hive:alice, payload: "100",
//	           intents: [{type: transfer.allow, args: {limit: "100", token: hive}}]}
//	    expect_error: ""
type Script struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Name  string     `yaml:"name"`
	Mint  *MintStep  `yaml:"mint"`
	Call  *CallStep  `yaml:"call"`
	Check *CheckStep `yaml:"check"`
	// ExpectError, when set, must be a substring of the call error.
	ExpectError string `yaml:"expect_error"`
}

type MintStep struct {
	To     string `yaml:"to"`
	Amount int64  `yaml:"amount"`
	Asset  string `yaml:"asset"`
}

type CallStep struct {
	Contract string       `yaml:"contract"`
	Action   string       `yaml:"action"`
	Sender   string       `yaml:"sender"`
	Payload  string       `yaml:"payload"`
	Intents  []sdk.Intent `yaml:"intents"`
}

// CheckStep asserts a committed balance.
type CheckStep struct {
	Address string `yaml:"address"`
	Asset   string `yaml:"asset"`
	Balance int64  `yaml:"balance"`
}

// StepResult is what happened to one step.
type StepResult struct {
	Index  int
	Name   string
	Result Result
}

// ParseScript decodes a yaml script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range s.Steps {
		n := 0
		for _, set := range []bool{st.Mint != nil, st.Call != nil, st.Check != nil} {
			if set {
				n++
			}
		}
		if n != 1 {
			return nil, fmt.Errorf("step %d: exactly one of mint, call or check required", i)
		}
	}
	return &s, nil
}

// Run executes every step and stops at the first one that does not match
// its expectation.
func (s *Script) Run(ctx context.Context, rt *Runtime) ([]StepResult, error) {
	out := make([]StepResult, 0, len(s.Steps))
	for i, st := range s.Steps {
		sr := StepResult{Index: i, Name: st.Name}
		switch {
		case st.Mint != nil:
			if err := rt.Mint(ctx, sdk.Address(st.Mint.To), st.Mint.Amount, sdk.Asset(st.Mint.Asset)); err != nil {
				return out, fmt.Errorf("step %d mint: %w", i, err)
			}
			sr.Result = Result{Success: true}
		case st.Check != nil:
			bal, err := rt.Balance(ctx, sdk.Address(st.Check.Address), sdk.Asset(st.Check.Asset))
			if err != nil {
				return out, fmt.Errorf("step %d check: %w", i, err)
			}
			if bal != st.Check.Balance {
				return out, fmt.Errorf("step %d check: %s holds %d %s, want %d", i, st.Check.Address, bal, st.Check.Asset, st.Check.Balance)
			}
			sr.Result = Result{Success: true}
		default:
			c := st.Call
			sr.Result = rt.Call(ctx, CallRequest{
				ContractID: c.Contract,
				Action:     c.Action,
				Payload:    c.Payload,
				Sender:     sdk.Address(c.Sender),
				Intents:    c.Intents,
			})
			if err := expect(sr.Result, st.ExpectError); err != nil {
				out = append(out, sr)
				return out, fmt.Errorf("step %d %s.%s: %w", i, c.Contract, c.Action, err)
			}
		}
		out = append(out, sr)
	}
	return out, nil
}

func expect(res Result, want string) error {
	switch {
	case want == "" && !res.Success:
		return fmt.Errorf("unexpected failure: %w", res.Err)
	case want != "" && res.Success:
		return fmt.Errorf("expected error containing %q, call succeeded", want)
	case want != "" && !strings.Contains(res.Err.Error(), want):
		return fmt.Errorf("expected error containing %q, got %w", want, res.Err)
	}
	return nil
}
