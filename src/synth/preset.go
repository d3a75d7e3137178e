package synth

import (
	"encoding/json"
	"io/ioutil"
	"os"
)

type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}
type presetMeta struct {
	name string
}
type presetData struct {
	list []*presetMeta
}

// presetManager reads and writes full parameter snapshots as JSON files
// under a directory. The directory holds one file per preset plus a
// _list.json index.
type presetManager struct {
	dir  string
	data *presetData
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

func (pm *presetManager) getList() ([]*presetMeta, error) {
	if pm.data == nil {
		if err := pm.loadData(); err != nil {
			return nil, err
		}
	}
	return pm.data.list, nil
}

func (pm *presetManager) applyToParams(name string, target *params) error {
	path := pm.dir + "/" + name + ".json"
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	target.applyJSON(bytes)
	return nil
}

// save writes the snapshot and adds the name to the index if new.
func (pm *presetManager) save(name string, source *params) error {
	if err := os.MkdirAll(pm.dir, 0755); err != nil {
		return err
	}
	path := pm.dir + "/" + name + ".json"
	if err := ioutil.WriteFile(path, source.toJSON(), 0644); err != nil {
		return err
	}
	if pm.data == nil {
		if err := pm.loadData(); err != nil {
			pm.data = &presetData{list: make([]*presetMeta, 0, 128)}
		}
	}
	for _, meta := range pm.data.list {
		if meta.name == name {
			return pm.saveData()
		}
	}
	pm.data.list = append(pm.data.list, &presetMeta{name: name})
	return pm.saveData()
}

func (pm *presetManager) loadData() error {
	path := pm.dir + "/_list.json"
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	metaListJSON := &presetMetaListJSON{}
	err = json.Unmarshal(bytes, &metaListJSON)
	if err != nil {
		return err
	}
	if pm.data == nil {
		pm.data = &presetData{list: make([]*presetMeta, 0, 128)}
	}
	pm.data.list = pm.data.list[0:0]
	for _, item := range metaListJSON.Items {
		pm.data.list = append(pm.data.list, &presetMeta{name: item.Name})
	}
	return nil
}

func (pm *presetManager) saveData() error {
	metaListJSON := &presetMetaListJSON{Items: make([]presetMetaJSON, len(pm.data.list))}
	for i, meta := range pm.data.list {
		metaListJSON.Items[i] = presetMetaJSON{Name: meta.name}
	}
	bytes, err := json.Marshal(metaListJSON)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(pm.dir+"/_list.json", bytes, 0644)
}
