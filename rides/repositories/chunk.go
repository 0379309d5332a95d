package repositories

// paramSafeChunkSize bounds the number of bound parameters per existence
// query. It sits safely under the SQLite default ceiling of 999 (and far
// under the Postgres one), and it is a constant on purpose: exceeding the
// backend limit is a correctness failure, not a tuning knob.
const paramSafeChunkSize = 900

// insertBatchSize bounds rows per multi-row INSERT. The rides table binds
// the most columns (13), keeping 60 rows per statement under the same
// parameter ceiling.
const insertBatchSize = 60

func chunkKeys(keys []string, size int) [][]string {
	if len(keys) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}
