package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study: title,order,K,errU,errS")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	for _, cs := range studies {
		fmt.Printf("Title = %s, Order = %d\n", cs.title, cs.order)
		rateU, rateS := cs.Rates()
		for i := range cs.numElements {
			fmt.Printf("%6d, %12.4e, %8.3f, %12.4e, %8.3f\n",
				cs.numElements[i], cs.errU[i], rateU[i], cs.errS[i], rateS[i])
		}
	}
}

type ConvergenceStudy struct {
	title       string
	order       int
	numElements []int
	errU, errS  []float64
}

func NewConvergenceStudy(title string, order int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		order: order,
	}
}

func (cs *ConvergenceStudy) Add(numElements int, errU, errS float64) {
	cs.numElements = append(cs.numElements, numElements)
	cs.errU = append(cs.errU, errU)
	cs.errS = append(cs.errS, errS)
}

// Rates are the observed orders against the previous row, log(e_coarse/e_fine)/log(K_fine/K_coarse).
// The first row has no predecessor and gets NaN.
func (cs *ConvergenceStudy) Rates() (rateU, rateS []float64) {
	rate := func(e []float64, i int) float64 {
		if i == 0 {
			return math.NaN()
		}
		ratio := float64(cs.numElements[i]) / float64(cs.numElements[i-1])
		return math.Log(e[i-1]/e[i]) / math.Log(ratio)
	}
	for i := range cs.numElements {
		rateU = append(rateU, rate(cs.errU, i))
		rateS = append(rateS, rate(cs.errS, i))
	}
	return
}

// readCSV groups rows by title and order, skipping a header row if present. Rows within
// a study are sorted by element count.
func readCSV(r io.Reader) (studies []*ConvergenceStudy, err error) {
	var (
		records [][]string
		byKey   = make(map[string]*ConvergenceStudy)
		keys    []string
	)
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	if records, err = cr.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 && rec[0] == "title" {
			continue
		}
		title, ntxt := rec[0], rec[1]
		var (
			n, K       int
			errU, errS float64
		)
		if n, err = strconv.Atoi(ntxt); err != nil {
			return nil, fmt.Errorf("row %d: order: %w", i+1, err)
		}
		if K, err = strconv.Atoi(rec[2]); err != nil {
			return nil, fmt.Errorf("row %d: element count: %w", i+1, err)
		}
		if errU, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("row %d: velocity error: %w", i+1, err)
		}
		if errS, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, fmt.Errorf("row %d: stress error: %w", i+1, err)
		}
		combTitle := title + ntxt
		cs, ok := byKey[combTitle]
		if !ok {
			cs = NewConvergenceStudy(title, n)
			byKey[combTitle] = cs
			keys = append(keys, combTitle)
		}
		cs.Add(K, errU, errS)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cs := byKey[key]
		sort.Sort(byElements{cs})
		studies = append(studies, cs)
	}
	return
}

type byElements struct{ *ConvergenceStudy }

func (b byElements) Len() int { return len(b.numElements) }
func (b byElements) Less(i, j int) bool {
	return b.numElements[i] < b.numElements[j]
}
func (b byElements) Swap(i, j int) {
	b.numElements[i], b.numElements[j] = b.numElements[j], b.numElements[i]
	b.errU[i], b.errU[j] = b.errU[j], b.errU[i]
	b.errS[i], b.errS[j] = b.errS[j], b.errS[i]
}
