package version

import (
	"encoding/json"
	"log"
	"runtime/debug"
)

type Info struct {
	Commit    string `json:"commit"`
	Time      string `json:"time"`
	GoVersion string `json:"goVersion"`
	Modified  bool   `json:"modified"`
}

func Read() Info {
	v := Info{}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	v.GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Commit = setting.Value
		case "vcs.time":
			v.Time = setting.Value
		case "vcs.modified":
			v.Modified = setting.Value == "true"
		}
	}
	return v
}

// Version is Read as JSON, computed once at startup.
var Version = func() string {
	b, err := json.Marshal(Read())
	if err != nil {
		log.Fatal(err)
	}
	return string(b)
}()
