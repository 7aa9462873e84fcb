package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Synthetic maintenance exports for exercising the analysis API without real
// fleet data. Values are modeled on typical planned-maintenance-system
// exports.

var vesselNames = []string{
	"MV Northern Star", "MV Baltic Trader", "MV Coral Sea",
	"MV Atlantic Dawn", "MV Pacific Crest", "MV Southern Cross",
}

var machineryLocations = []string{
	"Main Engine", "Aux Engine No.1", "Aux Engine No.2", "Steering Gear",
	"Bow Thruster", "Fresh Water Generator", "Air Compressor No.1",
	"Purifier - Fuel Oil", "Purifier - Lube Oil", "Emergency Generator",
	"Ballast Pump No.1", "Fire Pump", "Crane No.1", "Windlass",
	"Boiler", "Oily Water Separator", "Sewage Treatment Plant",
}

var departments = []string{"Engine", "Deck", "Electrical"}

var frequencies = []string{
	"250 hours", "500 hours", "1000 hours", "2000 hours", "4000 hours",
	"8000 hours", "12000 hours", "16000 hours",
	"1 month", "3 months", "6 months", "12 months", "30 months",
	"36 months", "60 months",
	"2 years", "5 years", "2 weeks", "30 days",
}

var jobActions = []string{"Overhaul", "Inspection", "Renewal", "Pressure Test", "Calibration", "Cleaning"}

var jobStatuses = []string{"Pending", "Pending", "Pending", "Completed", "In Progress"}

var performingRanks = []string{"Chief Engineer", "2nd Engineer", "3rd Engineer", "Electrician", "Chief Officer"}

var header = []string{
	"Vessel", "Department", "Machinery Location", "Job Code", "Title",
	"Frequency", "Calculated Due Date", "Job Status", "Job Action",
	"Performing Rank", "Machinery Running Hours", "Remaining Running Hours",
}

func randomRow(vessel string, seq int) []string {
	machinery := machineryLocations[rand.Intn(len(machineryLocations))]
	action := jobActions[rand.Intn(len(jobActions))]
	freq := frequencies[rand.Intn(len(frequencies))]

	// Spread due dates over the next few years; leave some blank the way
	// real exports do for unscheduled jobs.
	due := ""
	if rand.Float64() > 0.08 {
		d := time.Now().AddDate(0, rand.Intn(48), rand.Intn(28))
		due = d.Format("02/01/2006")
	}

	running := rand.Intn(30000)
	remaining := rand.Intn(4000)

	return []string{
		vessel,
		departments[rand.Intn(len(departments))],
		machinery,
		fmt.Sprintf("JOB-%04d", seq),
		fmt.Sprintf("%s - %s", machinery, action),
		freq,
		due,
		jobStatuses[rand.Intn(len(jobStatuses))],
		action,
		performingRanks[rand.Intn(len(performingRanks))],
		strconv.Itoa(running),
		strconv.Itoa(remaining),
	}
}

func generateCSV(vessel string, records int) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := 0; i < records; i++ {
		if err := w.Write(randomRow(vessel, i+1)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// uploadCSV posts the generated files to a running analysis API as one
// multipart dataset upload.
func uploadCSV(apiURL, token string, files map[string][]byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			return err
		}
		if _, err := part.Write(data); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL+"/api/datasets", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("upload failed with status: %d", resp.StatusCode)
	}
	log.WithField("status", resp.Status).Info("Uploaded dataset")
	return nil
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func main() {
	vessels := envInt("GEN_VESSELS", 3)
	records := envInt("GEN_RECORDS", 400)
	outDir := os.Getenv("GEN_OUT_DIR")
	if outDir == "" {
		outDir = "."
	}
	apiURL := os.Getenv("GEN_API_URL")
	token := os.Getenv("GEN_AUTH_TOKEN")

	files := make(map[string][]byte, vessels)
	for i := 0; i < vessels && i < len(vesselNames); i++ {
		vessel := vesselNames[i]
		data, err := generateCSV(vessel, records)
		if err != nil {
			log.WithError(err).Fatal("Failed to generate CSV")
		}
		name := fmt.Sprintf("maintenance_%02d.csv", i+1)
		files[name] = data

		path := outDir + "/" + name
		if err := os.WriteFile(path, data, 0644); err != nil {
			log.WithError(err).Fatal("Failed to write CSV file")
		}
		log.WithFields(log.Fields{
			"file":    path,
			"vessel":  vessel,
			"records": records,
		}).Info("Generated maintenance export")
	}

	if apiURL != "" {
		if err := uploadCSV(apiURL, token, files); err != nil {
			log.WithError(err).Fatal("Failed to upload dataset")
		}
	}
}
