package analyzer

import (
	"context"
	"fmt"
	"math"
	"sort"
)

const (
	maxClusterIterations = 50
	maxKeyPhrases        = 3
)

// weight is one non-zero entry of a sparse vector
type weight struct {
	index int
	value float64
}

// vector is a sparse vector over the vocabulary, ordered by index
type vector []weight

type sentenceDoc struct {
	sentence string
	terms    []string
	vector   vector
}

type cluster struct {
	centroid vector
	members  []int
}

// posting records the weight of a vocabulary term in one centroid
type posting struct {
	centroid int
	value    float64
}

// clusterTopics groups sentences into at most numTopics clusters of related content.
// Sentences are TF-IDF vectors and clustering is k-means under cosine similarity,
// seeded with the farthest-point heuristic so results are deterministic.
func clusterTopics(ctx context.Context, text string, numTopics, numKeywords int) ([]map[string]any, error) {
	if numTopics < 1 {
		return nil, fmt.Errorf("number of topics must be positive, got %d", numTopics)
	}

	var docs []sentenceDoc
	for _, sentence := range splitSentences(text) {
		terms := contentTerms(sentence)
		if len(terms) == 0 {
			continue
		}
		docs = append(docs, sentenceDoc{sentence: sentence, terms: terms})
	}
	if len(docs) == 0 {
		return []map[string]any{}, nil
	}

	vocab := weighTerms(docs)

	k := min(numTopics, len(docs))
	centroids, err := seedCentroids(ctx, docs, k)
	if err != nil {
		return nil, err
	}
	clusters, err := kmeans(ctx, docs, centroids, len(vocab))
	if err != nil {
		return nil, err
	}

	// Topics are numbered by where they first appear in the text
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].members[0] < clusters[j].members[0]
	})

	topics := make([]map[string]any, 0, len(clusters))
	for id, c := range clusters {
		sentences := make([]string, len(c.members))
		phraseCounts := make(map[string]int)
		for i, m := range c.members {
			sentences[i] = docs[m].sentence
			for phrase, count := range getNgrams(docs[m].terms, 2) {
				phraseCounts[phrase] += count
			}
		}

		topics = append(topics, map[string]any{
			"topic_id":    id,
			"keywords":    topTerms(c.centroid, vocab, numKeywords),
			"key_phrases": repeatedPhrases(phraseCounts, maxKeyPhrases),
			"size":        len(c.members),
			"sentences":   sentences,
		})
	}

	return topics, nil
}

// weighTerms sets each document vector to its L2-normalized TF-IDF weights over
// the sorted vocabulary, which it returns
func weighTerms(docs []sentenceDoc) []string {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, t := range d.terms {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	n := float64(len(docs))
	for i := range docs {
		counts := make(map[int]float64)
		for _, t := range docs[i].terms {
			counts[index[t]]++
		}
		v := sparse(counts)
		for j := range v {
			idf := math.Log((1+n)/(1+float64(df[vocab[v[j].index]]))) + 1
			v[j].value *= idf
		}
		docs[i].vector = normalize(v)
	}
	return vocab
}

// seedCentroids starts from the first sentence and repeatedly adds the sentence least
// similar to its nearest seed. nearest is updated once per seed.
func seedCentroids(ctx context.Context, docs []sentenceDoc, k int) ([]vector, error) {
	chosen := make([]bool, len(docs))
	nearest := make([]float64, len(docs))
	for i := range nearest {
		nearest[i] = math.Inf(-1)
	}

	seeds := make([]int, 0, k)
	next := 0
	for {
		seeds = append(seeds, next)
		chosen[next] = true
		if len(seeds) == k {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seed := docs[next].vector
		best, bestSim := -1, math.Inf(1)
		for i := range docs {
			if chosen[i] {
				continue
			}
			nearest[i] = math.Max(nearest[i], dot(docs[i].vector, seed))
			if nearest[i] < bestSim {
				best, bestSim = i, nearest[i]
			}
		}
		next = best
	}

	centroids := make([]vector, k)
	for i, s := range seeds {
		centroids[i] = append(vector(nil), docs[s].vector...)
	}
	return centroids, nil
}

func kmeans(ctx context.Context, docs []sentenceDoc, centroids []vector, vocabSize int) ([]cluster, error) {
	assignment := make([]int, len(docs))
	for i := range assignment {
		assignment[i] = -1
	}
	sims := make([]float64, len(centroids))

	for iter := 0; iter < maxClusterIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Each document only touches the centroids that share one of its terms
		postings := make([][]posting, vocabSize)
		for c, centroid := range centroids {
			for _, w := range centroid {
				postings[w.index] = append(postings[w.index], posting{centroid: c, value: w.value})
			}
		}

		changed := false
		for i, d := range docs {
			clear(sims)
			for _, w := range d.vector {
				for _, p := range postings[w.index] {
					sims[p.centroid] += w.value * p.value
				}
			}
			best, bestSim := 0, math.Inf(-1)
			for c, sim := range sims {
				if sim > bestSim {
					best, bestSim = c, sim
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]map[int]float64, len(centroids))
		for i, a := range assignment {
			if sums[a] == nil {
				sums[a] = make(map[int]float64)
			}
			for _, w := range docs[i].vector {
				sums[a][w.index] += w.value
			}
		}
		// An emptied cluster keeps its previous centroid
		for c, sum := range sums {
			if sum != nil {
				centroids[c] = normalize(sparse(sum))
			}
		}
	}

	clusters := make([]cluster, len(centroids))
	for c := range clusters {
		clusters[c].centroid = centroids[c]
	}
	for i, a := range assignment {
		clusters[a].members = append(clusters[a].members, i)
	}

	nonEmpty := clusters[:0]
	for _, c := range clusters {
		if len(c.members) > 0 {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return nonEmpty, nil
}

// topTerms returns the n heaviest terms of a centroid, ties broken alphabetically
func topTerms(centroid vector, vocab []string, n int) []string {
	order := make(vector, 0, len(centroid))
	for _, w := range centroid {
		if w.value > 0 {
			order = append(order, w)
		}
	}
	// vocab is sorted, so a stable sort on weight keeps ties alphabetical
	sort.SliceStable(order, func(a, b int) bool {
		return order[a].value > order[b].value
	})
	if len(order) > n {
		order = order[:n]
	}

	terms := make([]string, len(order))
	for i, w := range order {
		terms[i] = vocab[w.index]
	}
	return terms
}

// repeatedPhrases returns up to n bigrams that occur more than once
func repeatedPhrases(counts map[string]int, n int) []string {
	phrases := make([]string, 0)
	for p, c := range counts {
		if c > 1 {
			phrases = append(phrases, p)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > n {
		phrases = phrases[:n]
	}
	return phrases
}

func sparse(values map[int]float64) vector {
	v := make(vector, 0, len(values))
	for i, value := range values {
		v = append(v, weight{index: i, value: value})
	}
	sort.Slice(v, func(a, b int) bool { return v[a].index < v[b].index })
	return v
}

// dot assumes both vectors are unit length, making it the cosine similarity
func dot(a, b vector) float64 {
	sum := 0.0
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].index < b[j].index:
			i++
		case a[i].index > b[j].index:
			j++
		default:
			sum += a[i].value * b[j].value
			i++
			j++
		}
	}
	return sum
}

func normalize(v vector) vector {
	norm := 0.0
	for _, w := range v {
		norm += w.value * w.value
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make(vector, len(v))
	for i, w := range v {
		out[i] = weight{index: w.index, value: w.value / norm}
	}
	return out
}
