package contract

import (
	"fmt"
	"strconv"
	"strings"

	"collective_dao/sdk"
)

// unwrapPayload trims whitespace and strips one level of JSON quoting.
func unwrapPayload(payload string, errMsg string) (string, error) {
	raw := strings.TrimSpace(payload)
	if raw == "" {
		return "", errInvalidPayload("%s", errMsg)
	}
	if len(raw) >= 2 {
		first := raw[0]
		last := raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			if unquoted, err := strconv.Unquote(raw); err == nil {
				raw = strings.TrimSpace(unquoted)
			} else {
				raw = strings.TrimSpace(raw[1 : len(raw)-1])
			}
			if raw == "" {
				return "", errInvalidPayload("%s", errMsg)
			}
		}
	}
	return raw, nil
}

// splitPayload unwraps and splits on '|', missing trailing fields read as "".
func splitPayload(payload string, errMsg string) (func(int) string, error) {
	raw, err := unwrapPayload(payload, errMsg)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, "|")
	return func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}, nil
}

// parseUintField trims the input and names the field on errors.
func parseUintField(val string, field string) (uint64, error) {
	val = strings.TrimSpace(val)
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, errInvalidPayload("invalid %s %q", field, val)
	}
	return n, nil
}

func parseAmountField(val string, field string) (Amount, error) {
	val = strings.TrimSpace(val)
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errInvalidPayload("invalid %s %q", field, val)
	}
	return Amount(n), nil
}

// parseBoolField accepts a couple of truthy and falsy keywords. An empty
// field means fallback.
func parseBoolField(val string, fallback bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "":
		return fallback, nil
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, errInvalidPayload("invalid vote %q", val)
}

// parseOwnersField splits a comma separated owner list.
func parseOwnersField(val string) []sdk.Address {
	var owners []sdk.Address
	for _, o := range strings.Split(val, ",") {
		if o = strings.TrimSpace(o); o != "" {
			owners = append(owners, sdk.Address(o))
		}
	}
	return owners
}

// decodeInitArgs expects owners|marketplace|asset, the last two optional.
func decodeInitArgs(payload string) ([]sdk.Address, string, sdk.Asset, error) {
	get, err := splitPayload(payload, "owner list required")
	if err != nil {
		return nil, "", "", err
	}
	return parseOwnersField(get(0)), get(1), sdk.Asset(get(2)), nil
}

// decodeAcquireArgs expects assetRef|quantity|price.
func decodeAcquireArgs(payload string) (AcquirePayload, error) {
	get, err := splitPayload(payload, "acquire payload requires assetRef|quantity|price")
	if err != nil {
		return AcquirePayload{}, err
	}
	qty, err := parseUintField(get(1), "quantity")
	if err != nil {
		return AcquirePayload{}, err
	}
	price, err := parseAmountField(get(2), "price")
	if err != nil {
		return AcquirePayload{}, err
	}
	return AcquirePayload{AssetRef: get(0), Quantity: qty, Price: price}, nil
}

// decodeListArgs expects assetRef|quantity|pricePerUnit.
func decodeListArgs(payload string) (ListPayload, error) {
	get, err := splitPayload(payload, "list payload requires assetRef|quantity|pricePerUnit")
	if err != nil {
		return ListPayload{}, err
	}
	qty, err := parseUintField(get(1), "quantity")
	if err != nil {
		return ListPayload{}, err
	}
	price, err := parseAmountField(get(2), "price per unit")
	if err != nil {
		return ListPayload{}, err
	}
	return ListPayload{AssetRef: get(0), Quantity: qty, PricePerUnit: price}, nil
}

// decodeProposalRef expects kind|id, with the vote as optional third field.
func decodeProposalRef(payload string) (ProposalKind, string, bool, error) {
	get, err := splitPayload(payload, "proposal payload requires kind|id")
	if err != nil {
		return 0, "", false, err
	}
	kind, err := ParseProposalKind(get(0))
	if err != nil {
		return 0, "", false, err
	}
	id := get(1)
	if id == "" {
		return 0, "", false, errInvalidPayload("proposal id required")
	}
	inFavor, err := parseBoolField(get(2), true)
	if err != nil {
		return 0, "", false, err
	}
	return kind, id, inFavor, nil
}

// decodeIDVote expects id|vote for list votes.
func decodeIDVote(payload string, field string) (string, bool, error) {
	get, err := splitPayload(payload, fmt.Sprintf("%s required", field))
	if err != nil {
		return "", false, err
	}
	inFavor, err := parseBoolField(get(1), true)
	if err != nil {
		return "", false, err
	}
	return get(0), inFavor, nil
}
