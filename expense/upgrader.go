package expense

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type storeUpgrader struct{}

func (u *storeUpgrader) Parse(dataVersion, id string, data json.RawMessage) (interface{}, error) {
	switch dataVersion {
	case "1":
		var e Expense
		err := json.Unmarshal(data, &e)
		if e.ID == "" {
			e.ID = id
		}
		return e, err
	default:
		return nil, errors.Errorf("Unsupported version: %q", dataVersion)
	}
}

func (u *storeUpgrader) Upgrade(dataVersion, id string, data interface{}) (newVersion string, newData interface{}, err error) {
	return dataVersion, data, nil
}
