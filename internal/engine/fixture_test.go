package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `Rank,Name,Platform,Year,Genre,Publisher,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales
1,Wii Sports,Wii,2006,Sports,Nintendo,41.49,29.02,3.77,8.46,82.74
2,Super Mario Bros.,NES,1985,Platform,Nintendo,29.08,3.58,6.81,0.77,40.24
3,Mario Kart Wii,Wii,2008,Racing,Nintendo,15.85,12.88,3.79,3.31,35.82
4,Wii Sports Resort,Wii,2009,Sports,Nintendo,15.75,11.01,3.28,2.96,33
5,Pokemon Red/Pokemon Blue,GB,1996,Role-Playing,Nintendo,11.27,8.89,10.22,1,31.37
6,Tetris,GB,1989,Puzzle,Nintendo,23.2,2.26,4.22,0.58,30.26
7,New Super Mario Bros.,DS,2006,Platform,Nintendo,11.38,9.23,6.5,2.9,29.8
8,Madden NFL 2004,PS2,N/A,Sports,Electronic Arts,0.53,0.36,0,0.12,1.02
9,"Warhammer 40,000: Dawn of War",PC,2004,Strategy,THQ,0,0.51,0,0.1,0.61
`

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	store, err := ReadColumnar(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return NewDataset(store)
}

func ranks(ds *Dataset) []int {
	out := make([]int, ds.Len())
	for i := range out {
		out[i] = ds.Record(i).Rank
	}
	return out
}
