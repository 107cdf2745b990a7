package gifdecoder

// readColorTable decodes n consecutive RGB triples.
func readColorTable(r *byteReader, n int, stage string) (ColorTable, error) {
	data, err := r.readN(3*n, stage)
	if err != nil {
		return nil, err
	}

	table := make(ColorTable, n)
	for i := range table {
		table[i] = Color{
			R: data[i*3],
			G: data[i*3+1],
			B: data[i*3+2],
		}
	}
	return table, nil
}
