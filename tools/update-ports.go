package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

func main() {

	maxPort := flag.Int("max", 65535, "Highest port number to include")
	outPath := flag.String("out", "./scan/known.go", "File to write")
	flag.Parse()

	resp, err := http.Get("https://www.iana.org/assignments/service-names-port-numbers/service-names-port-numbers.csv")
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	output, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer output.Close()

	fmt.Fprintf(output, `package scan

// data from https://www.iana.org/assignments/service-names-port-numbers/service-names-port-numbers.csv
// regenerate with: go run ./tools/update-ports.go -max %d
var knownPorts = map[int]string{`, *maxPort)

	written := 0
	lastPort := ""
	reader := csv.NewReader(resp.Body)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		if len(record) < 3 || record[2] != "tcp" || record[0] == "" || record[1] == "" || record[1] == lastPort {
			continue
		}

		port, err := strconv.Atoi(record[1])
		if err != nil || port > *maxPort {
			continue
		}

		lastPort = record[1]
		fmt.Fprintf(output, "\n\t%d: %q,", port, record[0])
		written++
	}

	fmt.Fprint(output, "\n}\n")
	log.Infof("Wrote %d service names to %s", written, *outPath)
}
