package memory

import "survival-quiz/internal/domain"

// DefaultBank is the built-in bank used when no file or database bank is configured.
func DefaultBank() []domain.Question {
	return []domain.Question{
		{Prompt: "What is the capital of France?", Category: "Geography", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, CorrectIndex: 1},
		{Prompt: "What is the largest ocean on Earth?", Category: "Geography", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectIndex: 3},
		{Prompt: "Which planet is known as the Red Planet?", Category: "Science", Options: []string{"Earth", "Venus", "Mars", "Jupiter"}, CorrectIndex: 2},
		{Prompt: "What is the chemical symbol for gold?", Category: "Science", Options: []string{"Go", "Gd", "Au", "Ag"}, CorrectIndex: 2},
		{Prompt: "How many legs does a spider have?", Category: "Nature", Options: []string{"6", "8", "10", "12"}, CorrectIndex: 1},
		{Prompt: "What is 15 multiplied by 4?", Category: "Math", Options: []string{"50", "60", "70", "80"}, CorrectIndex: 1},
		{Prompt: "What is the square root of 144?", Category: "Math", Options: []string{"10", "11", "12", "14"}, CorrectIndex: 2},
		{Prompt: "Who painted the Mona Lisa?", Category: "Art", Options: []string{"Van Gogh", "Picasso", "Da Vinci", "Monet"}, CorrectIndex: 2},
		{Prompt: "In which year did World War II end?", Category: "History", Options: []string{"1943", "1944", "1945", "1946"}, CorrectIndex: 2},
		{Prompt: "Who wrote 'Romeo and Juliet'?", Category: "Literature", Options: []string{"Charles Dickens", "William Shakespeare", "Jane Austen", "Mark Twain"}, CorrectIndex: 1},
		{Prompt: "What is the longest river in the world?", Category: "Geography", Options: []string{"Amazon", "Nile", "Yangtze", "Mississippi"}, CorrectIndex: 1},
		{Prompt: "What is the smallest country in the world?", Category: "Geography", Options: []string{"Monaco", "Vatican City", "San Marino", "Liechtenstein"}, CorrectIndex: 1},
		{Prompt: "Who was the first person to walk on the moon?", Category: "History", Options: []string{"Buzz Aldrin", "Neil Armstrong", "Michael Collins", "John Glenn"}, CorrectIndex: 1},
		{Prompt: "How many chambers does the human heart have?", Category: "Biology", Options: []string{"2", "3", "4", "5"}, CorrectIndex: 2},
		{Prompt: "What is the powerhouse of the cell?", Category: "Biology", Options: []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi Apparatus"}, CorrectIndex: 1},
		{Prompt: "Which gas do plants absorb from the atmosphere?", Category: "Science", Options: []string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Hydrogen"}, CorrectIndex: 2},
		{Prompt: "What is 2 to the power of 5?", Category: "Math", Options: []string{"16", "32", "64", "128"}, CorrectIndex: 1},
		{Prompt: "Which physicist developed the theory of General Relativity?", Category: "Physics", Options: []string{"Newton", "Bohr", "Einstein", "Hawking"}, CorrectIndex: 2},
		{Prompt: "In which year did the Berlin Wall fall?", Category: "History", Options: []string{"1987", "1989", "1991", "1993"}, CorrectIndex: 1},
		{Prompt: "What is the freezing point of water in Celsius?", Category: "Science", Options: []string{"-10°C", "0°C", "10°C", "32°C"}, CorrectIndex: 1},
	}
}
