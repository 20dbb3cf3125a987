package neural

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveJSON writes the network weights to path.
func (nn *FFNN) SaveJSON(path string) error {
	data, err := json.MarshalIndent(nn.MarshalWeights(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling brain: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing brain file: %w", err)
	}
	return nil
}

// LoadJSON reads network weights written by SaveJSON.
func LoadJSON(path string) (*FFNN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading brain file: %w", err)
	}
	var bw BrainWeights
	if err := json.Unmarshal(data, &bw); err != nil {
		return nil, fmt.Errorf("parsing brain file: %w", err)
	}
	if len(bw.W1) != NumHidden*NumInputs || len(bw.B1) != NumHidden ||
		len(bw.W2) != NumOutputs*NumHidden || len(bw.B2) != NumOutputs {
		return nil, fmt.Errorf("brain file %s has wrong dimensions", path)
	}
	nn := &FFNN{}
	nn.UnmarshalWeights(bw)
	return nn, nil
}
