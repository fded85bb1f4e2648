package handler

import (
	"encoding/json"
	"strconv"
)

func unmarshalJSON(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
