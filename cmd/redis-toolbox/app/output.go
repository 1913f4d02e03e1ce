package app

import (
	"encoding/json"
	"fmt"
	"github.com/QQGoblin/dbm-toolbox/pkg/config"
	"github.com/pkg/errors"
	"io"
	"sigs.k8s.io/yaml"
)

func (o *options) print(w io.Writer, v interface{}) error {

	var (
		data []byte
		err  error
	)
	switch o.cfg.Output {
	case config.OutputYAML:
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.Wrapf(err, "format %s output", o.cfg.Output)
	}
	_, err = fmt.Fprint(w, string(data))
	return err
}
