package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"npsched"
)

// loadJobsCSV reads a job file in the task_id,job_id,r_min,r_max,c_min,
// c_max,deadline,priority format. A malformed row is reported with its
// line number but does not abort the rest of the file — matching the
// "file parse failure is non-fatal to the batch" error-handling kind.
func loadJobsCSV(path string, hasHeader bool) ([]npsched.Job[float64], []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 8

	var jobs []npsched.Job[float64]
	var errs []error
	line := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			line++
			errs = append(errs, fmt.Errorf("%s:%d: %w", path, line, err))
			if errors.Is(err, csv.ErrFieldCount) {
				continue
			}
			break
		}
		line++
		if hasHeader && line == 1 {
			continue
		}
		job, err := parseJobRow(rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %w", path, line, err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, errs
}

func parseJobRow(rec []string) (npsched.Job[float64], error) {
	var zero npsched.Job[float64]
	fields := make([]float64, 6)
	taskID, err := strconv.Atoi(rec[0])
	if err != nil {
		return zero, fmt.Errorf("task_id: %w", err)
	}
	jobID, err := strconv.Atoi(rec[1])
	if err != nil {
		return zero, fmt.Errorf("job_id: %w", err)
	}
	for i, v := range rec[2:] {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return zero, fmt.Errorf("field %d: %w", i+2, err)
		}
		fields[i] = f
	}
	rMin, rMax, cMin, cMax, deadline, priority := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]

	id := npsched.JobID{Task: taskID, Job: jobID}
	return npsched.NewJob(id, npsched.NewInterval(rMin, rMax), npsched.NewInterval(cMin, cMax), deadline, int64(priority)), nil
}

// loadPrecedenceCSV reads from_task,from_job,to_task,to_job rows.
func loadPrecedenceCSV(path string, hasHeader bool) ([]npsched.Precedence, []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4

	var edges []npsched.Precedence
	var errs []error
	line := 0
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		line++
		if hasHeader && line == 1 {
			continue
		}
		ints := make([]int, 4)
		ok := true
		for i, v := range rec {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s:%d: %w", path, line, err))
				ok = false
				break
			}
			ints[i] = n
		}
		if !ok {
			continue
		}
		edges = append(edges, npsched.Precedence{
			From: npsched.JobID{Task: ints[0], Job: ints[1]},
			To:   npsched.JobID{Task: ints[2], Job: ints[3]},
		})
	}
	return edges, errs
}

// loadAbortsCSV reads task,job,trig_min,trig_max,cleanup_min,cleanup_max rows.
func loadAbortsCSV(path string, hasHeader bool) ([]npsched.AbortAction[float64], []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var aborts []npsched.AbortAction[float64]
	var errs []error
	line := 0
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		line++
		if hasHeader && line == 1 {
			continue
		}
		task, err1 := strconv.Atoi(rec[0])
		job, err2 := strconv.Atoi(rec[1])
		trigMin, err3 := strconv.ParseFloat(rec[2], 64)
		trigMax, err4 := strconv.ParseFloat(rec[3], 64)
		cleanMin, err5 := strconv.ParseFloat(rec[4], 64)
		cleanMax, err6 := strconv.ParseFloat(rec[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			errs = append(errs, fmt.Errorf("%s:%d: malformed abort row", path, line))
			continue
		}
		aborts = append(aborts, npsched.AbortAction[float64]{
			Job:     npsched.JobID{Task: task, Job: job},
			Trigger: npsched.NewInterval(trigMin, trigMax),
			Cleanup: npsched.NewInterval(cleanMin, cleanMax),
		})
	}
	return aborts, errs
}
