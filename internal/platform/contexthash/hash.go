package contexthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Compute returns a hex SHA-256 content hash of v, stable under map key
// order: the value is serialized to canonical JSON (object keys sorted
// recursively) before hashing. Two structurally equal values always hash
// identically regardless of how their maps were built.
func Compute(v any) (string, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal context value: %w", err)
	}

	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode context value: %w", err)
	}

	var sb strings.Builder
	if err := writeCanonical(&sb, decoded); err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}

func writeCanonical(sb *strings.Builder, v any) error {
	switch value := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(value))
	case float64:
		sb.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	case string:
		encoded, err := sonic.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode string: %w", err)
		}
		sb.Write(encoded)
	case []any:
		sb.WriteByte('[')
		for i, item := range value {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeCanonical(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodedKey, err := sonic.Marshal(key)
			if err != nil {
				return fmt.Errorf("encode key: %w", err)
			}
			sb.Write(encodedKey)
			sb.WriteByte(':')
			if err := writeCanonical(sb, value[key]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("unsupported context value type %T", v)
	}

	return nil
}
