package main

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"npsched"
)

// yamlProblem is the YAML-native alternative to the CSV input shape: one
// file carrying the jobs, precedence edges and processor count, easier to
// hand-author for a small test case. It has no abort actions, and a YAML
// problem is built without any.
type yamlProblem struct {
	NumProcessors int `yaml:"num_processors"`
	Jobs          []struct {
		Task     int     `yaml:"task"`
		Job      int     `yaml:"job"`
		RMin     float64 `yaml:"r_min"`
		RMax     float64 `yaml:"r_max"`
		CMin     float64 `yaml:"c_min"`
		CMax     float64 `yaml:"c_max"`
		Deadline float64 `yaml:"deadline"`
		Priority int64   `yaml:"priority"`
	} `yaml:"jobs"`
	Precedence []struct {
		From [2]int `yaml:"from"`
		To   [2]int `yaml:"to"`
	} `yaml:"precedence"`
}

func isYAMLFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

func loadProblemYAML(path string, numCPUsFlag int) (*npsched.Problem[float64], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var yp yamlProblem
	if err := yaml.Unmarshal(raw, &yp); err != nil {
		return nil, err
	}

	jobs := make([]npsched.Job[float64], 0, len(yp.Jobs))
	for _, j := range yp.Jobs {
		id := npsched.JobID{Task: j.Task, Job: j.Job}
		jobs = append(jobs, npsched.NewJob(id, npsched.NewInterval(j.RMin, j.RMax), npsched.NewInterval(j.CMin, j.CMax), j.Deadline, j.Priority))
	}
	prec := make([]npsched.Precedence, 0, len(yp.Precedence))
	for _, e := range yp.Precedence {
		prec = append(prec, npsched.Precedence{
			From: npsched.JobID{Task: e.From[0], Job: e.From[1]},
			To:   npsched.JobID{Task: e.To[0], Job: e.To[1]},
		})
	}

	numCPUs := yp.NumProcessors
	if numCPUs == 0 {
		numCPUs = numCPUsFlag
	}

	return npsched.NewProblem(jobs, prec, nil, numCPUs)
}
